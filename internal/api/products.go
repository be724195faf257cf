package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/markdown"
	"github.com/halvard/vitrine/internal/models"
)

// productDetail augments the stored product with rendered HTML when
// requested via ?render=html. Codex terms are linkified before rendering.
type productDetail struct {
	models.Product
	HTML string `json:"html,omitempty"`
}

// ListProducts handles GET /api/products.
// Supported query params: category, tag, q, pre_order, on_sale, new_arrival.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		CategorySlug: q.Get("category"),
		Tag:          q.Get("tag"),
		Search:       q.Get("q"),
		PreOrder:     q.Get("pre_order") == "true",
		OnSale:       q.Get("on_sale") == "true",
		NewArrival:   q.Get("new_arrival") == "true",
	}
	products, err := h.svc.Products(f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"total":    len(products),
	})
}

// GetProduct handles GET /api/products/{category}/{slug}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Product(chi.URLParam(r, "category"), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.writeProductDetail(w, r, http.StatusOK, p)
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := h.svc.CreateProduct(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{category}/{slug}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := h.svc.UpdateProduct(chi.URLParam(r, "category"), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{category}/{slug}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(chi.URLParam(r, "category"), chi.URLParam(r, "slug")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeProductDetail(w http.ResponseWriter, r *http.Request, status int, p *models.Product) {
	detail := productDetail{Product: *p}
	if r.URL.Query().Get("render") == "html" {
		annotated, err := h.svc.Annotate(p.Body)
		if err != nil {
			writeErr(w, err)
			return
		}
		html, err := markdown.Render(annotated)
		if err != nil {
			writeErr(w, err)
			return
		}
		detail.HTML = html
	}
	writeJSON(w, status, detail)
}

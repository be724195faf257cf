package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/markdown"
	"github.com/halvard/vitrine/internal/models"
)

type postDetail struct {
	models.BlogPost
	HTML string `json:"html,omitempty"`
}

// ListPosts handles GET /api/blog.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Posts()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// GetPost handles GET /api/blog/{slug}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Post(chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, err)
		return
	}
	detail := postDetail{BlogPost: *p}
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
	writeJSON(w, http.StatusOK, detail)
}

// CreatePost handles POST /api/blog.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := h.svc.CreatePost(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePost handles PUT /api/blog/{slug}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := h.svc.UpdatePost(chi.URLParam(r, "slug"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePost handles DELETE /api/blog/{slug}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePost(chi.URLParam(r, "slug")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

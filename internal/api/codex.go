package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halvard/vitrine/internal/catalog"
)

// ListCodexEntries handles GET /api/codex.
func (h *Handler) ListCodexEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.CodexEntries()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GetCodexEntry handles GET /api/codex/{slug}.
func (h *Handler) GetCodexEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.CodexEntry(chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CodexReferences handles GET /api/codex/{slug}/references. It lists the
// products and posts whose bodies mention the entry.
func (h *Handler) CodexReferences(w http.ResponseWriter, r *http.Request) {
	refs, err := h.svc.CodexReferences(chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"references": refs})
}

// CreateCodexEntry handles POST /api/codex.
func (h *Handler) CreateCodexEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.CodexInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	e, err := h.svc.CreateCodexEntry(in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateCodexEntry handles PUT /api/codex/{slug}.
func (h *Handler) UpdateCodexEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var in catalog.CodexInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	e, err := h.svc.UpdateCodexEntry(chi.URLParam(r, "slug"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteCodexEntry handles DELETE /api/codex/{slug}. Bodies that still
// mention the term keep their bracketed markup and simply stop resolving.
func (h *Handler) DeleteCodexEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCodexEntry(chi.URLParam(r, "slug")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Annotate handles POST /api/codex/annotate. It rewrites resolvable
// [[Term]] markup in the submitted content into glossary links and
// returns the result; unresolved terms pass through untouched.
func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	out, err := h.svc.Annotate(req.Content)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": out})
}

package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags().List()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// RenameTag handles POST /api/tags/rename. Renaming onto an existing tag
// merges the two memberships.
func (h *Handler) RenameTag(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req struct {
		OldName string `json:"old_name"`
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.Tags().Rename(req.OldName, req.NewName)
	if err != nil {
		writeErr(w, err)
		return
	}
	status := http.StatusOK
	if res.Partial() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, res)
}

// DeleteTag handles DELETE /api/tags/{name}. Tag names may contain
// characters that need URL escaping, so the param is unescaped first.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	res, err := h.svc.Tags().Delete(name)
	if err != nil {
		writeErr(w, err)
		return
	}
	status := http.StatusOK
	if res.Partial() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, res)
}

package api

import (
	"net/http"
	"strconv"
)

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.searchDB == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("search index disabled"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.searchDB.Search(q, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Autocomplete handles GET /api/autocomplete. It suggests products whose
// title or localized names contain the query prefix.
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	if h.searchDB == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("search index disabled"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	suggestions, err := h.searchDB.Autocomplete(q, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

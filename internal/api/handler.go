package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/halvard/vitrine/internal/apperr"
	"github.com/halvard/vitrine/internal/catalog"
	"github.com/halvard/vitrine/internal/search"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc      *catalog.Service
	searchDB *search.DB // nil when the search index is disabled
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service, searchDB *search.DB) *Handler {
	return &Handler{svc: svc, searchDB: searchDB}
}

// writeErr maps domain errors to HTTP statuses. Unclassified errors are
// logged and reported as 500 without leaking internals.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrAlreadyExists), errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

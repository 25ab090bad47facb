package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photoid/internal/standard"
)

// StandardsHandler serves the photo standard registry.
type StandardsHandler struct{}

// NewStandardsHandler creates a new standards handler.
func NewStandardsHandler() *StandardsHandler {
	return &StandardsHandler{}
}

// List returns all known standards, optionally filtered by the q query
// parameter (country or name search, diacritics-insensitive).
func (h *StandardsHandler) List(w http.ResponseWriter, r *http.Request) {
	var standards []standard.PhotoStandard
	if q := r.URL.Query().Get("q"); q != "" {
		standards = standard.Search(q)
	} else {
		standards = standard.All()
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"standards": standards,
		"count":     len(standards),
	})
}

// Get returns one standard by id, including its pixel dimensions at 300 DPI.
func (h *StandardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !standard.Known(id) {
		respondError(w, http.StatusNotFound, "unknown standard: "+id)
		return
	}

	std := standard.Lookup(id)
	respondJSON(w, http.StatusOK, map[string]any{
		"standard": std,
		"pixels":   standard.Pixels(std),
	})
}

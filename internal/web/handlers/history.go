package handlers

import (
	"net/http"
	"strconv"
)

// historyMaxLimit caps one page of history rows.
const historyMaxLimit = 200

// HistoryHandler serves past evaluation verdicts.
type HistoryHandler struct {
	store Store
}

// NewHistoryHandler creates a new history handler. store may be nil when
// history persistence is disabled.
func NewHistoryHandler(store Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List returns the newest evaluations, newest first. Responds 404 when no
// database is configured.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, historyMaxLimit)
	}

	evals, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"evaluations": evals,
		"count":       len(evals),
	})
}

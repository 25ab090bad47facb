package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/photoid/internal/database"
)

func TestHistoryDisabled(t *testing.T) {
	handler := NewHistoryHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusNotFound)
	assertJSONError(t, rec, "history is not enabled")
}

func TestHistoryList(t *testing.T) {
	store := &fakeStore{evals: []database.Evaluation{
		{ID: "a", StandardID: "us", NeedsRetake: false},
		{ID: "b", StandardID: "eu", NeedsRetake: true},
	}}
	handler := NewHistoryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusOK)

	var resp struct {
		Evaluations []database.Evaluation `json:"evaluations"`
		Count       int                   `json:"count"`
	}
	parseJSONResponse(t, rec, &resp)

	if resp.Count != 2 {
		t.Errorf("expected 2 evaluations, got %d", resp.Count)
	}
	if store.lastLimit != 50 {
		t.Errorf("expected default limit 50, got %d", store.lastLimit)
	}
}

func TestHistoryLimitClamped(t *testing.T) {
	store := &fakeStore{}
	handler := NewHistoryHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=100000", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	if store.lastLimit != historyMaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", historyMaxLimit, store.lastLimit)
	}
}

package web

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/photoid/internal/detect"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/pipeline"
)

type stubDetector struct{}

func (stubDetector) Detect(_ context.Context, _ image.Image) ([]detect.Detection, error) {
	return []detect.Detection{{Face: geometry.FaceBox{X: 220, Y: 180, W: 360, H: 360}, Score: 40}}, nil
}

func (stubDetector) Close() error { return nil }

func newTestServer() *Server {
	pl := pipeline.New(stubDetector{}, pipeline.DefaultOptions())
	return NewServer(pl, nil, nil, "127.0.0.1", 0)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("expected health body to report ok, got %s", rec.Body.String())
	}
}

func TestStandardsRouted(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/standards/us", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d\nBody: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"us"`) {
		t.Errorf("expected the US standard in the body, got %s", rec.Body.String())
	}
}

func TestHistoryRouteWithoutStore(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without a database, got %d", rec.Code)
	}
}

func TestPreflightThroughStack(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/check", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected preflight status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected localhost origin allowed, got '%s'", got)
	}
}

func TestIndexPage(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML index, got Content-Type '%s'", ct)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/check") {
		t.Error("expected the index page to point at the API")
	}
}

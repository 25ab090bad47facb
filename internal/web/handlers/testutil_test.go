package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photoid/internal/database"
	"github.com/kozaktomas/photoid/internal/detect"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/pipeline"
)

// testLogger returns a logger that swallows output.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeDetector returns canned detections without any model.
type fakeDetector struct {
	dets []detect.Detection
	err  error
}

func (d *fakeDetector) Detect(_ context.Context, _ image.Image) ([]detect.Detection, error) {
	return d.dets, d.err
}

func (d *fakeDetector) Close() error { return nil }

// testPipeline builds a pipeline whose detector always finds one centered
// face, so handler tests exercise the full evaluation path.
func testPipeline() *pipeline.Pipeline {
	det := &fakeDetector{dets: []detect.Detection{{
		Face:  geometry.FaceBox{X: 220, Y: 180, W: 360, H: 360},
		Score: 40,
	}}}
	return pipeline.New(det, pipeline.DefaultOptions())
}

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	saved     []database.Evaluation
	evals     []database.Evaluation
	saveErr   error
	lastLimit int
}

func (s *fakeStore) Save(_ context.Context, ev database.Evaluation) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, ev)
	return nil
}

func (s *fakeStore) Recent(_ context.Context, limit int) ([]database.Evaluation, error) {
	s.lastLimit = limit
	if limit < len(s.evals) {
		return s.evals[:limit], nil
	}
	return s.evals, nil
}

// portraitImage builds a plain light image; handler tests only care about
// the HTTP contract, not the verdicts.
func portraitImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{250, 240, 232, 255})
		}
	}
	return img
}

// multipartPhoto builds a multipart body with a PNG photo plus extra fields.
func multipartPhoto(t *testing.T, img image.Image, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if img != nil {
		part, err := writer.CreateFormFile("photo", "photo.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if err := png.Encode(part, img); err != nil {
			t.Fatalf("failed to encode test photo: %v", err)
		}
	}

	for key, value := range fields {
		writer.WriteField(key, value)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

// multipartRequest builds a POST request carrying a multipart photo form.
func multipartRequest(t *testing.T, path string, img image.Image, fields map[string]string) *http.Request {
	t.Helper()
	body, contentType := multipartPhoto(t, img, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

package segment

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/photoid/internal/background"
	"github.com/kozaktomas/photoid/internal/geometry"
)

// cutoutImage is a transparent canvas with an opaque subject square.
func cutoutImage(w, h int, subject image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := subject.Min.Y; y < subject.Max.Y; y++ {
		for x := subject.Min.X; x < subject.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRemoveBackground(t *testing.T) {
	served := cutoutImage(120, 160, image.Rect(30, 40, 90, 120), color.NRGBA{80, 90, 100, 255})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/remove" {
			t.Errorf("path = %s, want /api/remove", r.URL.Path)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file form field: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer file.Close()
		if _, _, err := image.Decode(file); err != nil {
			t.Errorf("uploaded payload does not decode: %v", err)
		}

		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, served); err != nil {
			t.Errorf("could not encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	src := image.NewRGBA(image.Rect(0, 0, 120, 160))

	cutout, err := client.RemoveBackground(context.Background(), src)
	if err != nil {
		t.Fatalf("RemoveBackground failed: %v", err)
	}
	if cutout.Bounds().Dx() != 120 || cutout.Bounds().Dy() != 160 {
		t.Errorf("cutout bounds = %v, want 120x160", cutout.Bounds())
	}
	if _, _, _, a := cutout.At(5, 5).RGBA(); a != 0 {
		t.Errorf("background pixel alpha = %d, want fully transparent", a)
	}
	if _, _, _, a := cutout.At(60, 80).RGBA(); a == 0 {
		t.Error("subject pixel must stay opaque")
	}
}

func TestRemoveBackgroundServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.RemoveBackground(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("status 500")) {
		t.Errorf("error = %v, want the status code included", err)
	}
}

func TestRemoveBackgroundGarbageResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("not a png"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.RemoveBackground(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestCompositeWhite(t *testing.T) {
	cutout := cutoutImage(100, 100, image.Rect(40, 40, 60, 60), color.NRGBA{80, 90, 100, 255})

	flat := CompositeWhite(cutout)
	if flat.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v, want zero-based 100x100", flat.Bounds())
	}
	if c := flat.RGBAAt(5, 5); c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("transparent region = %+v, want opaque white", c)
	}
	if c := flat.RGBAAt(50, 50); c.R != 80 || c.G != 90 || c.B != 100 {
		t.Errorf("subject region = %+v, want the subject color", c)
	}
}

func TestCompositeWhiteNil(t *testing.T) {
	if CompositeWhite(nil) != nil {
		t.Error("nil input must stay nil")
	}
}

// A composited cutout is exactly the clean background the evaluator asks
// for, so its verdict must be keep no matter what the original background
// looked like.
func TestCompositeSatisfiesBackgroundCheck(t *testing.T) {
	face := geometry.FaceBox{X: 150, Y: 150, W: 100, H: 100}
	cutout := cutoutImage(400, 400, image.Rect(150, 150, 250, 250), color.NRGBA{120, 100, 90, 255})

	report := background.Evaluate(CompositeWhite(cutout), &face, background.DefaultThresholds())
	if report.Verdict != background.VerdictKeep {
		t.Errorf("verdict = %s (score %.0f), want keep", report.Verdict, report.Score)
	}
	if report.Score < background.DefaultThresholds().KeepScore {
		t.Errorf("score = %.0f, want at least the keep threshold", report.Score)
	}
}

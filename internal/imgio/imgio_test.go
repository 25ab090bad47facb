package imgio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7 % 256), uint8(y * 11 % 256), 90, 255})
		}
	}
	return img
}

// buildEXIF assembles a minimal little-endian TIFF block holding only the
// orientation tag, the way phone cameras record it.
func buildEXIF(orientation uint16) []byte {
	b := []byte{'E', 'x', 'i', 'f', 0, 0}
	b = append(b, 'I', 'I', 0x2A, 0, 8, 0, 0, 0) // TIFF header, IFD0 at offset 8
	b = append(b, 1, 0)                          // one entry
	b = append(b, 0x12, 0x01, 3, 0, 1, 0, 0, 0)  // tag 0x0112, SHORT, count 1
	b = append(b, byte(orientation), byte(orientation>>8), 0, 0)
	b = append(b, 0, 0, 0, 0) // no next IFD
	return b
}

func jpegWithOrientation(t *testing.T, img image.Image, orientation uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()

	payload := buildEXIF(orientation)
	segLen := len(payload) + 2
	app1 := append([]byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}, payload...)

	out := append([]byte{0xFF, 0xD8}, app1...)
	return append(out, raw[2:]...)
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := EncodeJPEG(testImage(64, 48))
	if err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecodeAppliesOrientation(t *testing.T) {
	tests := []struct {
		name        string
		orientation uint16
		wantW       int
		wantH       int
	}{
		{"upright stays put", 1, 40, 20},
		{"rotated 180 keeps dimensions", 3, 40, 20},
		{"rotated 90 swaps dimensions", 6, 20, 40},
		{"rotated 270 swaps dimensions", 8, 20, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := jpegWithOrientation(t, testImage(40, 20), tt.orientation)
			img, _, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions = %dx%d, want %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRotationPixelMapping(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255}) // red marker top-left

	r90 := rotate90(img)
	if r90.Bounds().Dx() != 2 || r90.Bounds().Dy() != 3 {
		t.Fatalf("rotate90 dimensions = %v", r90.Bounds())
	}
	if r, _, _, _ := r90.At(1, 0).RGBA(); r>>8 != 255 {
		t.Error("rotate90 should move the top-left marker to the top-right")
	}

	r180 := rotate180(img)
	if r, _, _, _ := r180.At(2, 1).RGBA(); r>>8 != 255 {
		t.Error("rotate180 should move the top-left marker to the bottom-right")
	}

	r270 := rotate270(img)
	if r, _, _, _ := r270.At(0, 2).RGBA(); r>>8 != 255 {
		t.Error("rotate270 should move the top-left marker to the bottom-left")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := testImage(32, 32)

	for _, name := range []string{"photo.jpg", "photo.png"} {
		path := filepath.Join(dir, name)
		if err := Save(path, img); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if loaded.Bounds().Dx() != 32 {
			t.Errorf("%s: width = %d, want 32", name, loaded.Bounds().Dx())
		}
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "photo.gif"), testImage(8, 8)); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected an error for non-image bytes")
	}
}

// Package render produces pixel output: the single photo at the standard's
// exact dimensions and a tiled print sheet. The crop geometry upstream is
// authoritative; this package only samples, scales and pads pixels.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/standard"
)

// BrightnessLimit bounds the additive brightness adjustment per channel.
const BrightnessLimit = 100

var white = color.RGBA{255, 255, 255, 255}

// Photo renders the solved crop at exactly spec.W x spec.H pixels. Crop
// regions outside the source come out white, which is what the solver's
// needs-padding flag promises. Brightness shifts every channel additively
// and is clamped to [-BrightnessLimit, BrightnessLimit].
func Photo(src image.Image, sol geometry.Solution, spec standard.SpecPx, brightness float64) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, spec.W, spec.H))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)
	if src == nil || sol.Crop.W <= 0 || sol.Crop.H <= 0 {
		return canvas
	}

	b := src.Bounds()
	srcW := float64(b.Dx())
	srcH := float64(b.Dy())
	crop := sol.Crop

	// Visible part of the crop, in source coordinates.
	ix0 := math.Max(crop.X, 0)
	iy0 := math.Max(crop.Y, 0)
	ix1 := math.Min(crop.X+crop.W, srcW)
	iy1 := math.Min(crop.Y+crop.H, srcH)
	if ix1 <= ix0 || iy1 <= iy0 {
		return canvas
	}

	dstRect := image.Rect(
		int(math.Round((ix0-crop.X)/crop.W*float64(spec.W))),
		int(math.Round((iy0-crop.Y)/crop.H*float64(spec.H))),
		int(math.Round((ix1-crop.X)/crop.W*float64(spec.W))),
		int(math.Round((iy1-crop.Y)/crop.H*float64(spec.H))),
	)
	srcRect := image.Rect(
		b.Min.X+int(math.Round(ix0)),
		b.Min.Y+int(math.Round(iy0)),
		b.Min.X+int(math.Round(ix1)),
		b.Min.Y+int(math.Round(iy1)),
	)

	// Over keeps transparent pixels white, so photos coming back from
	// background segmentation composite correctly for free.
	xdraw.CatmullRom.Scale(canvas, dstRect, src, srcRect, xdraw.Over, nil)

	if brightness != 0 {
		applyBrightness(canvas, dstRect, clampF(brightness, -BrightnessLimit, BrightnessLimit))
	}
	return canvas
}

// Downsample returns a copy whose longest side is at most maxDim, plus the
// factor mapping original coordinates into the copy. Images already small
// enough are returned as-is with factor 1.
func Downsample(img image.Image, maxDim int) (image.Image, float64) {
	if img == nil || maxDim <= 0 {
		return img, 1
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	long := max(w, h)
	if long <= maxDim {
		return img, 1
	}
	factor := float64(maxDim) / float64(long)
	nw := max(int(math.Round(float64(w)*factor)), 1)
	nh := max(int(math.Round(float64(h)*factor)), 1)
	out := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out, factor
}

func applyBrightness(img *image.RGBA, r image.Rectangle, delta float64) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.R = clampByte(float64(c.R) + delta)
			c.G = clampByte(float64(c.G) + delta)
			c.B = clampByte(float64(c.B) + delta)
			img.SetRGBA(x, y, c)
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

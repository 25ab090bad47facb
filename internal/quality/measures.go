package quality

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kozaktomas/photoid/internal/geometry"
)

const (
	// Grid steps keep the probes cheap on the ~1000px working copy.
	sampleStep = 2
	colorStep  = 4

	// Histogram tails: bottom 12% and top 4% of the 0..255 luma range.
	shadowCeil     = 30
	highlightFloor = 245

	// Head-boundary ring geometry, as fractions of the estimated head height.
	haloAngleSteps   = 72
	haloInwardFactor = 0.12
)

var haloRadiusFactors = []float64{0.56, 0.64, 0.72}

// Sharpness returns the variance of a four-neighbor Laplacian over the luma
// plane. Crisp photos score in the hundreds, defocused ones near zero.
func Sharpness(img image.Image) float64 {
	if img == nil {
		return neutralSharpness
	}
	luma, w, h := lumaPlane(img)
	if w < 3 || h < 3 {
		return neutralSharpness
	}
	samples := make([]float64, 0, (w/sampleStep+1)*(h/sampleStep+1))
	for y := 1; y < h-1; y += sampleStep {
		for x := 1; x < w-1; x += sampleStep {
			c := luma[y*w+x]
			lap := luma[(y-1)*w+x] + luma[(y+1)*w+x] + luma[y*w+x-1] + luma[y*w+x+1] - 4*c
			samples = append(samples, lap)
		}
	}
	if len(samples) < 2 {
		return neutralSharpness
	}
	return stat.Variance(samples, nil)
}

// ColorDeviation returns the mean per-pixel deviation of the color channels
// from their shared mean. Grayscale photos score near zero.
func ColorDeviation(img image.Image) float64 {
	if img == nil {
		return neutralColorDev
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return neutralColorDev
	}
	devs := make([]float64, 0, (b.Dx()/colorStep+1)*(b.Dy()/colorStep+1))
	for y := b.Min.Y; y < b.Max.Y; y += colorStep {
		for x := b.Min.X; x < b.Max.X; x += colorStep {
			r, g, bl, _ := img.At(x, y).RGBA()
			rf, gf, bf := float64(r>>8), float64(g>>8), float64(bl>>8)
			m := (rf + gf + bf) / 3
			devs = append(devs, (math.Abs(rf-m)+math.Abs(gf-m)+math.Abs(bf-m))/3)
		}
	}
	if len(devs) == 0 {
		return neutralColorDev
	}
	return stat.Mean(devs, nil)
}

// ClassifyExposure buckets the photo by mean luma plus histogram tail mass.
// A low mean alone is not enough to call a photo under-exposed; the shadow
// tail must also hold the bulk of the pixels, and likewise for highlights.
func ClassifyExposure(img image.Image, t Thresholds) (ExposureClass, float64) {
	if img == nil {
		return ExposureNormal, neutralMeanLuma
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ExposureNormal, neutralMeanLuma
	}
	var hist [256]int
	var sum float64
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y += sampleStep {
		for x := b.Min.X; x < b.Max.X; x += sampleStep {
			r, g, bl, _ := img.At(x, y).RGBA()
			l := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			idx := int(l)
			if idx > 255 {
				idx = 255
			}
			hist[idx]++
			sum += l
			total++
		}
	}
	if total == 0 {
		return ExposureNormal, neutralMeanLuma
	}
	mean := sum / float64(total)
	var shadow, highlight int
	for i := 0; i <= shadowCeil; i++ {
		shadow += hist[i]
	}
	for i := highlightFloor; i < len(hist); i++ {
		highlight += hist[i]
	}
	shadowMass := float64(shadow) / float64(total)
	highlightMass := float64(highlight) / float64(total)
	switch {
	case mean < t.UnderExposeMean && shadowMass > t.UnderExposeMass:
		return ExposureUnder, mean
	case mean > t.OverExposeMean && highlightMass > t.OverExposeMass:
		return ExposureOver, mean
	}
	return ExposureNormal, mean
}

// EyeTilt returns the signed angle of the line through the detected eye
// centers, in degrees. Estimated eye positions are ignored on purpose: they
// are derived level from the face box and would mask a real tilt.
func EyeTilt(face *geometry.FaceBox) float64 {
	if face == nil || face.LeftEye == nil || face.RightEye == nil {
		return 0
	}
	dx := face.RightEye.X - face.LeftEye.X
	dy := face.RightEye.Y - face.LeftEye.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// LightingSymmetry compares the mean brightness of the two face halves and
// maps the asymmetry onto 0..100, where 100 means evenly lit. The score
// bottoms out once the asymmetry reaches t.LightingSaturate percent.
func LightingSymmetry(img image.Image, face *geometry.FaceBox, t Thresholds) float64 {
	if img == nil || face == nil || face.W <= 0 || face.H <= 0 {
		return neutralLighting
	}
	mid := face.CenterX()
	left := regionMeanLuma(img, face.X, face.Y, mid, face.Y+face.H)
	right := regionMeanLuma(img, mid, face.Y, face.X+face.W, face.Y+face.H)
	if left < 0 || right < 0 {
		return neutralLighting
	}
	avg := (left + right) / 2
	if avg <= 0 {
		return neutralLighting
	}
	asym := math.Abs(left-right) / avg * 100
	score := 100 * (1 - asym/t.LightingSaturate)
	if score < 0 {
		return 0
	}
	return score
}

// HaloEdge samples a ring just outside the expected head outline and rates
// two matting artifacts. The halo score is the percentage of samples showing
// a bright fringe over a darker interior (higher is worse); the edge score
// is 100 minus the percentage of rough samples (higher is better).
func HaloEdge(img image.Image, face *geometry.FaceBox, r geometry.Ratios, t Thresholds) (float64, float64) {
	if img == nil || face == nil || face.W <= 0 || face.H <= 0 {
		return 0, neutralEdge
	}
	crown := face.CrownY(r)
	chin := face.ChinY()
	headH := chin - crown
	if headH <= 0 {
		return 0, neutralEdge
	}
	cx := face.CenterX()
	cy := (crown + chin) / 2
	inward := haloInwardFactor * headH

	var haloHits, roughHits, n int
	for i := 0; i < haloAngleSteps; i++ {
		a := 2 * math.Pi * float64(i) / haloAngleSteps
		sin, cos := math.Sincos(a)
		for _, f := range haloRadiusFactors {
			rad := f * headH
			x := int(cx + rad*cos)
			y := int(cy + rad*sin)
			l, ok := sampleLuma(img, x, y)
			if !ok {
				continue
			}
			n++
			ix := int(cx + (rad-inward)*cos)
			iy := int(cy + (rad-inward)*sin)
			if inner, ok := sampleLuma(img, ix, iy); ok {
				if l >= t.HaloBandLow && l <= t.HaloBandHigh && l-inner > t.HaloContrast {
					haloHits++
				}
			}
			if fourNeighborVariance(img, x, y) > t.EdgeRoughVar {
				roughHits++
			}
		}
	}
	if n == 0 {
		return 0, neutralEdge
	}
	halo := 100 * float64(haloHits) / float64(n)
	edge := 100 - 100*float64(roughHits)/float64(n)
	return halo, edge
}

func fourNeighborVariance(img image.Image, x, y int) float64 {
	offsets := [5][2]int{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	vals := make([]float64, 0, len(offsets))
	for _, d := range offsets {
		if l, ok := sampleLuma(img, x+d[0], y+d[1]); ok {
			vals = append(vals, l)
		}
	}
	if len(vals) < 2 {
		return 0
	}
	return stat.Variance(vals, nil)
}

// lumaPlane flattens the image into a row-major luma slice.
func lumaPlane(img image.Image) ([]float64, int, int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			luma[y*w+x] = luminance(r, g, bl)
		}
	}
	return luma, w, h
}

// sampleLuma reads one pixel by bounds-relative coordinates.
func sampleLuma(img image.Image, x, y int) (float64, bool) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return 0, false
	}
	r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return luminance(r, g, bl), true
}

func luminance(r, g, b uint32) float64 {
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

func regionMeanLuma(img image.Image, x0, y0, x1, y1 float64) float64 {
	b := img.Bounds()
	ix0, iy0 := int(x0), int(y0)
	ix1, iy1 := int(x1), int(y1)
	if ix0 < 0 {
		ix0 = 0
	}
	if iy0 < 0 {
		iy0 = 0
	}
	if ix1 > b.Dx() {
		ix1 = b.Dx()
	}
	if iy1 > b.Dy() {
		iy1 = b.Dy()
	}
	if ix1 <= ix0 || iy1 <= iy0 {
		return -1
	}
	var sum float64
	n := 0
	for y := iy0; y < iy1; y += sampleStep {
		for x := ix0; x < ix1; x += sampleStep {
			if l, ok := sampleLuma(img, x, y); ok {
				sum += l
				n++
			}
		}
	}
	if n == 0 {
		return -1
	}
	return sum / float64(n)
}

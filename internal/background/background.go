// Package background rates how close a photo's backdrop is to the plain
// white that photo standards demand. It samples border strips and corners,
// keeps face pixels out of the statistics and folds the sample classes into
// a single 0..100 score with a verdict and a human-readable reason.
package background

import (
	"image"

	"github.com/kozaktomas/photoid/internal/geometry"
)

// Verdict says what to do about the backdrop.
type Verdict string

const (
	// VerdictKeep means the backdrop already passes as white.
	VerdictKeep Verdict = "keep"
	// VerdictOptional means removal would help but is not required.
	VerdictOptional Verdict = "optional"
	// VerdictReplace means the backdrop should be replaced.
	VerdictReplace Verdict = "replace"
)

// Thresholds tune the sample classification and the verdict bands.
type Thresholds struct {
	// WhiteMin and LightMin are per-channel floors for the white and
	// light sample classes.
	WhiteMin float64 `yaml:"white_min"`
	LightMin float64 `yaml:"light_min"`
	// MaxSpread is the max-minus-min channel spread below which a sample
	// counts as uniform (plain, uncolored).
	MaxSpread float64 `yaml:"max_spread"`
	// KeepScore and OptionalScore split the 0..100 score into the three
	// verdict bands.
	KeepScore     float64 `yaml:"keep_score"`
	OptionalScore float64 `yaml:"optional_score"`
}

// DefaultThresholds returns the calibration shipped with the analyzer.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WhiteMin:      230,
		LightMin:      200,
		MaxSpread:     30,
		KeepScore:     80,
		OptionalScore: 55,
	}
}

// Score weights for the three sample classes.
const (
	weightWhite   = 50.0
	weightLight   = 30.0
	weightUniform = 20.0
)

// Border strip depth as a percentage of each dimension. Corner patches are
// sampled a second time on top of the strips, which deliberately weights
// them double: corners are the most reliable background real estate.
const stripPercent = 12

// Face exclusion margins. The detector box ends at the chin and eyebrows;
// hair and shoulders stick out well past it.
const (
	excludeFactorX = 1.4
	excludeFactorY = 1.6
)

// Report is the outcome of one backdrop evaluation. AvgR/G/B average the
// sampled background pixels only, never the subject.
type Report struct {
	Score        float64 `json:"score"`
	WhiteRatio   float64 `json:"white_ratio"`
	LightRatio   float64 `json:"light_ratio"`
	UniformRatio float64 `json:"uniform_ratio"`
	AvgR         float64 `json:"avg_r"`
	AvgG         float64 `json:"avg_g"`
	AvgB         float64 `json:"avg_b"`
	Verdict      Verdict `json:"verdict"`
	NeedsRemoval bool    `json:"needs_removal"`
	Reason       string  `json:"reason,omitempty"`
	Samples      int     `json:"samples"`
}

// Evaluate samples the border strips and corners of img, skipping anything
// inside the expanded face box, and scores the backdrop. A nil image or a
// face covering the whole frame yields the optimistic neutral report.
func Evaluate(img image.Image, face *geometry.FaceBox, t Thresholds) Report {
	if img == nil {
		return neutralReport()
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return neutralReport()
	}

	var exclude *geometry.FaceBox
	if face != nil && face.W > 0 && face.H > 0 {
		ex := face.Expand(excludeFactorX, excludeFactorY)
		exclude = &ex
	}

	stripW := w * stripPercent / 100
	if stripW < 8 {
		stripW = 8
	}
	stripH := h * stripPercent / 100
	if stripH < 8 {
		stripH = 8
	}
	step := min(w, h) / 150
	if step < 2 {
		step = 2
	}

	var samples, white, light, uniform int
	var sumR, sumG, sumB float64
	visit := func(x0, y0, x1, y1 int) {
		if x0 < 0 {
			x0 = 0
		}
		if y0 < 0 {
			y0 = 0
		}
		if x1 > w {
			x1 = w
		}
		if y1 > h {
			y1 = h
		}
		for y := y0; y < y1; y += step {
			for x := x0; x < x1; x += step {
				if exclude != nil && exclude.Contains(float64(x), float64(y)) {
					continue
				}
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				rf, gf, bf := float64(r>>8), float64(g>>8), float64(bl>>8)
				samples++
				sumR += rf
				sumG += gf
				sumB += bf
				if rf > t.WhiteMin && gf > t.WhiteMin && bf > t.WhiteMin {
					white++
				}
				if rf > t.LightMin && gf > t.LightMin && bf > t.LightMin {
					light++
				}
				if spread(rf, gf, bf) < t.MaxSpread {
					uniform++
				}
			}
		}
	}

	visit(0, 0, w, stripH)               // top
	visit(0, h-stripH, w, h)             // bottom
	visit(0, stripH, stripW, h-stripH)   // left
	visit(w-stripW, stripH, w, h-stripH) // right

	// Corner patches again, on purpose.
	visit(0, 0, stripW, stripH)
	visit(w-stripW, 0, w, stripH)
	visit(0, h-stripH, stripW, h)
	visit(w-stripW, h-stripH, w, h)

	if samples == 0 {
		return neutralReport()
	}

	rep := Report{
		WhiteRatio:   float64(white) / float64(samples),
		LightRatio:   float64(light) / float64(samples),
		UniformRatio: float64(uniform) / float64(samples),
		AvgR:         sumR / float64(samples),
		AvgG:         sumG / float64(samples),
		AvgB:         sumB / float64(samples),
		Samples:      samples,
	}
	rep.Score = weightWhite*rep.WhiteRatio + weightLight*rep.LightRatio + weightUniform*rep.UniformRatio

	switch {
	case rep.Score >= t.KeepScore:
		rep.Verdict = VerdictKeep
	case rep.Score >= t.OptionalScore:
		rep.Verdict = VerdictOptional
		rep.Reason = reason(rep.LightRatio, rep.UniformRatio)
	default:
		rep.Verdict = VerdictReplace
		rep.NeedsRemoval = true
		rep.Reason = reason(rep.LightRatio, rep.UniformRatio)
	}
	return rep
}

func neutralReport() Report {
	return Report{
		Score:        100,
		WhiteRatio:   1,
		LightRatio:   1,
		UniformRatio: 1,
		AvgR:         255,
		AvgG:         255,
		AvgB:         255,
		Verdict:      VerdictKeep,
	}
}

// reason picks the dominant defect. Colored or patterned backdrops trip the
// uniformity check, dark ones the light check; what remains is a plain
// backdrop that simply is not white.
func reason(lightRatio, uniformRatio float64) string {
	switch {
	case uniformRatio < 0.5:
		return "background is textured or colored rather than plain"
	case lightRatio < 0.3:
		return "background is too dark"
	default:
		return "background is not white enough"
	}
}

func spread(r, g, b float64) float64 {
	lo, hi := r, r
	if g < lo {
		lo = g
	}
	if g > hi {
		hi = g
	}
	if b < lo {
		lo = b
	}
	if b > hi {
		hi = b
	}
	return hi - lo
}

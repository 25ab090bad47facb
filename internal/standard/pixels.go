package standard

import "math"

// DPI is the print resolution every standard is resolved against.
const DPI = 300

const mmPerInch = 25.4

// HeadTargetFraction positions the target head height between the allowed
// minimum and maximum, biased below the midpoint to leave headroom for hair.
const HeadTargetFraction = 0.45

// SpecPx is a photo standard resolved to pixels at DPI. Derived on demand,
// never persisted.
type SpecPx struct {
	W               int `json:"w"`
	H               int `json:"h"`
	HeadMinPx       int `json:"head_min_px"`
	HeadMaxPx       int `json:"head_max_px"`
	TargetHeadPx    int `json:"target_head_px"`
	EyeFromBottomPx int `json:"eye_from_bottom_px"`
}

// Pixels resolves std at DPI using the default head target fraction.
func Pixels(std PhotoStandard) SpecPx {
	return PixelsAt(std, HeadTargetFraction)
}

// PixelsAt resolves std at DPI with the target head height placed at the
// given fraction between HeadMin and HeadMax. Each field is rounded
// independently so rounding error stays per field instead of propagating.
func PixelsAt(std PhotoStandard, headFraction float64) SpecPx {
	scale := DPI / mmPerInch
	if std.Unit == "inch" {
		scale = DPI
	}
	target := std.HeadMin + (std.HeadMax-std.HeadMin)*headFraction
	return SpecPx{
		W:               px(std.Width, scale),
		H:               px(std.Height, scale),
		HeadMinPx:       px(std.HeadMin, scale),
		HeadMaxPx:       px(std.HeadMax, scale),
		TargetHeadPx:    px(target, scale),
		EyeFromBottomPx: px(std.EyeFromBottom, scale),
	}
}

func px(v, scale float64) int {
	return int(math.Round(v * scale))
}

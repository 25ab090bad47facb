// Package quality measures photometric properties of a portrait photo:
// sharpness, color presence, exposure, lighting balance, eye-line tilt and
// cutout artifacts around the head. Every measure is a pure function of the
// decoded image, so callers pay only for the probes they run.
package quality

import (
	"image"

	"github.com/kozaktomas/photoid/internal/geometry"
)

// ExposureClass buckets the overall brightness of a photo.
type ExposureClass string

const (
	ExposureNormal ExposureClass = "normal"
	ExposureUnder  ExposureClass = "under"
	ExposureOver   ExposureClass = "over"
)

// Neutral values reported when a probe cannot measure its input. They sit
// on the passing side of the default thresholds so a degenerate probe never
// condemns an otherwise readable photo.
const (
	neutralSharpness = 100
	neutralColorDev  = 255
	neutralMeanLuma  = 128
	neutralLighting  = 100
	neutralEdge      = 100
)

// Report bundles the outcome of every probe for one photo.
type Report struct {
	// Sharpness is the Laplacian variance of the luma plane.
	Sharpness float64 `json:"sharpness"`
	// TiltDeg is the signed eye-line angle in degrees. Positive slopes
	// downward toward the subject's left (image right).
	TiltDeg float64 `json:"tilt_deg"`
	// Grayscale reports whether the photo carries no usable color.
	Grayscale bool `json:"grayscale"`
	// LightingScore rates left/right facial illumination balance, 100 = even.
	LightingScore float64 `json:"lighting_score"`
	// Exposure classifies overall brightness; MeanLuma is the raw mean.
	Exposure ExposureClass `json:"exposure"`
	MeanLuma float64       `json:"mean_luma"`
	// HaloScore is the fraction (percent) of head-boundary samples showing a
	// bright cutout fringe. EdgeScore rates boundary smoothness, 100 = clean.
	HaloScore float64 `json:"halo_score"`
	EdgeScore float64 `json:"edge_score"`
}

// Analyze runs every probe against the photo. The face box may be nil, in
// which case the face-relative measures fall back to their neutral values.
func Analyze(img image.Image, face *geometry.FaceBox, r geometry.Ratios, t Thresholds) Report {
	exposure, meanLuma := ClassifyExposure(img, t)
	halo, edge := HaloEdge(img, face, r, t)
	return Report{
		Sharpness:     Sharpness(img),
		TiltDeg:       EyeTilt(face),
		Grayscale:     ColorDeviation(img) < t.GrayscaleMaxDev,
		LightingScore: LightingSymmetry(img, face, t),
		Exposure:      exposure,
		MeanLuma:      meanLuma,
		HaloScore:     halo,
		EdgeScore:     edge,
	}
}

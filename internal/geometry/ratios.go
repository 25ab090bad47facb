package geometry

// Ratios relates a detector face box to full head geometry and sets the
// framing tolerances. The crop solver and the compliance checks must read
// the same instance, otherwise the checks will contradict the rendered
// photo.
type Ratios struct {
	// HeadToFace converts face box height (eyebrows to chin) to full
	// crown-to-chin head height.
	HeadToFace float64 `yaml:"head_to_face"`
	// CrownClearance is the hair-volume allowance above the face box, as a
	// fraction of face box height.
	CrownClearance float64 `yaml:"crown_clearance"`
	// EyeFromFaceTop places the eye line when no eye landmarks exist, as a
	// fraction of face box height below the box top.
	EyeFromFaceTop float64 `yaml:"eye_from_face_top"`
	// EyeSpacing is the distance between the eyes as a fraction of face box
	// width, used to mirror a single known eye.
	EyeSpacing float64 `yaml:"eye_spacing"`
	// TopMargin is the minimum crown distance from the crop top, as a
	// fraction of crop height.
	TopMargin float64 `yaml:"top_margin"`
	// BottomMargin is the minimum chin distance from the crop bottom, as a
	// fraction of crop height.
	BottomMargin float64 `yaml:"bottom_margin"`
	// MaxZoomOut bounds how far constraint repair may shrink the crop from
	// its solved size.
	MaxZoomOut float64 `yaml:"max_zoom_out"`
	// MaxCenterOffset is how far pan may move the face center off the crop
	// center, as a fraction of crop width.
	MaxCenterOffset float64 `yaml:"max_center_offset"`
}

// DefaultRatios returns the empirical constants calibrated against common
// portrait detectors, which report a box from eyebrows to chin covering
// roughly 70% of the true head height.
func DefaultRatios() Ratios {
	return Ratios{
		HeadToFace:      1.43,
		CrownClearance:  0.18,
		EyeFromFaceTop:  0.42,
		EyeSpacing:      0.38,
		TopMargin:       0.10,
		BottomMargin:    0.08,
		MaxZoomOut:      0.30,
		MaxCenterOffset: 0.15,
	}
}

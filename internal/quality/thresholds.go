package quality

// Thresholds are the tuning constants for every photometric measure. They
// are calibrated against the analysis working resolution (longest side
// around 1000px) and are empirical knobs, not physical truths; re-tune them
// whenever the working resolution changes.
type Thresholds struct {
	// BlurCutoff is the Laplacian variance below which a photo counts as blurry.
	BlurCutoff float64 `yaml:"blur_cutoff"`
	// GrayscaleMaxDev is the mean per-pixel channel deviation below which
	// color is considered stripped.
	GrayscaleMaxDev float64 `yaml:"grayscale_max_dev"`

	// Under-exposure requires both the mean and the shadow tail to trigger.
	UnderExposeMean float64 `yaml:"under_expose_mean"`
	UnderExposeMass float64 `yaml:"under_expose_mass"`
	// Over-exposure requires both the mean and the highlight tail to trigger.
	OverExposeMean float64 `yaml:"over_expose_mean"`
	OverExposeMass float64 `yaml:"over_expose_mass"`

	TiltWarnDeg float64 `yaml:"tilt_warn_deg"`

	LightingWarnScore float64 `yaml:"lighting_warn_score"`
	// LightingSaturate is the left/right asymmetry percentage at which the
	// lighting score bottoms out at zero.
	LightingSaturate float64 `yaml:"lighting_saturate"`

	// Halo samples must sit in [HaloBandLow, HaloBandHigh] and exceed their
	// inward neighbor by HaloContrast to count as a cutout fringe.
	HaloBandLow   float64 `yaml:"halo_band_low"`
	HaloBandHigh  float64 `yaml:"halo_band_high"`
	HaloContrast  float64 `yaml:"halo_contrast"`
	HaloWarnScore float64 `yaml:"halo_warn_score"`

	// EdgeRoughVar is the four-neighbor brightness variance above which a
	// sample counts as a rough cutout edge.
	EdgeRoughVar  float64 `yaml:"edge_rough_var"`
	EdgeWarnScore float64 `yaml:"edge_warn_score"`
}

// DefaultThresholds returns the calibration shipped with the analyzer.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BlurCutoff:        100,
		GrayscaleMaxDev:   10,
		UnderExposeMean:   70,
		UnderExposeMass:   0.5,
		OverExposeMean:    200,
		OverExposeMass:    0.4,
		TiltWarnDeg:       8,
		LightingWarnScore: 60,
		LightingSaturate:  30,
		HaloBandLow:       235,
		HaloBandHigh:      254,
		HaloContrast:      40,
		HaloWarnScore:     30,
		EdgeRoughVar:      350,
		EdgeWarnScore:     60,
	}
}

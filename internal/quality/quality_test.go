package quality

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/kozaktomas/photoid/internal/geometry"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func checkerImage(w, h, cell int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

func gray(v uint8) color.RGBA {
	return color.RGBA{v, v, v, 255}
}

func drawDisc(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawRing(img *image.RGBA, cx, cy, r0, r1 float64, c color.RGBA) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d2 := dx*dx + dy*dy
			if d2 >= r0*r0 && d2 <= r1*r1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func TestSharpnessSeparatesCheckerFromFlat(t *testing.T) {
	cutoff := DefaultThresholds().BlurCutoff

	flat := Sharpness(uniformImage(200, 200, gray(128)))
	if flat >= cutoff {
		t.Errorf("flat image sharpness = %f, want below %f", flat, cutoff)
	}

	crisp := Sharpness(checkerImage(200, 200, 2, gray(0), gray(255)))
	if crisp <= cutoff {
		t.Errorf("checker sharpness = %f, want above %f", crisp, cutoff)
	}
	if crisp <= flat {
		t.Errorf("checker (%f) should outscore flat (%f)", crisp, flat)
	}
}

func TestSharpnessDegenerateInput(t *testing.T) {
	cutoff := DefaultThresholds().BlurCutoff
	if got := Sharpness(nil); got < cutoff {
		t.Errorf("nil image sharpness = %f, must not fall below %f", got, cutoff)
	}
	if got := Sharpness(uniformImage(2, 2, gray(128))); got < cutoff {
		t.Errorf("tiny image sharpness = %f, must not fall below %f", got, cutoff)
	}
}

func TestColorDeviation(t *testing.T) {
	th := DefaultThresholds()

	grayDev := ColorDeviation(uniformImage(100, 100, gray(120)))
	if grayDev >= th.GrayscaleMaxDev {
		t.Errorf("gray image deviation = %f, want below %f", grayDev, th.GrayscaleMaxDev)
	}

	colorDev := ColorDeviation(uniformImage(100, 100, color.RGBA{200, 120, 40, 255}))
	if colorDev < th.GrayscaleMaxDev {
		t.Errorf("color image deviation = %f, want at least %f", colorDev, th.GrayscaleMaxDev)
	}
}

func TestClassifyExposure(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		img  image.Image
		want ExposureClass
	}{
		{"dark with shadow mass", uniformImage(100, 100, gray(20)), ExposureUnder},
		{"bright with highlight mass", uniformImage(100, 100, gray(250)), ExposureOver},
		{"midtone", uniformImage(100, 100, gray(128)), ExposureNormal},
		// Both the mean and the tail must trigger; a dim photo with no
		// crushed shadows is still usable.
		{"dim without shadow mass", uniformImage(100, 100, gray(60)), ExposureNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mean := ClassifyExposure(tt.img, th)
			if got != tt.want {
				t.Errorf("exposure = %s (mean %f), want %s", got, mean, tt.want)
			}
		})
	}
}

func TestEyeTilt(t *testing.T) {
	tests := []struct {
		name string
		face *geometry.FaceBox
		want float64
	}{
		{"nil face", nil, 0},
		{
			"level eyes",
			&geometry.FaceBox{
				X: 0, Y: 0, W: 200, H: 200,
				LeftEye:  &geometry.Point{X: 60, Y: 80},
				RightEye: &geometry.Point{X: 140, Y: 80},
			},
			0,
		},
		{
			"fifteen degrees down to the right",
			&geometry.FaceBox{
				X: 0, Y: 0, W: 300, H: 300,
				LeftEye:  &geometry.Point{X: 100, Y: 100},
				RightEye: &geometry.Point{X: 196.593, Y: 125.882},
			},
			15,
		},
		{
			"fifteen degrees up to the right",
			&geometry.FaceBox{
				X: 0, Y: 0, W: 300, H: 300,
				LeftEye:  &geometry.Point{X: 100, Y: 125.882},
				RightEye: &geometry.Point{X: 196.593, Y: 100},
			},
			-15,
		},
		{
			"single eye cannot measure",
			&geometry.FaceBox{
				X: 0, Y: 0, W: 200, H: 200,
				LeftEye: &geometry.Point{X: 60, Y: 90},
			},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EyeTilt(tt.face); math.Abs(got-tt.want) > 0.05 {
				t.Errorf("EyeTilt() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestLightingSymmetry(t *testing.T) {
	th := DefaultThresholds()
	face := &geometry.FaceBox{X: 50, Y: 50, W: 100, H: 100}

	even := LightingSymmetry(uniformImage(200, 200, gray(140)), face, th)
	if even != 100 {
		t.Errorf("even lighting score = %f, want 100", even)
	}

	split := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if x < 100 {
				split.SetRGBA(x, y, gray(80))
			} else {
				split.SetRGBA(x, y, gray(160))
			}
		}
	}
	harsh := LightingSymmetry(split, face, th)
	if harsh != 0 {
		t.Errorf("hard split lighting score = %f, want 0", harsh)
	}

	if got := LightingSymmetry(uniformImage(200, 200, gray(140)), nil, th); got != 100 {
		t.Errorf("nil face lighting score = %f, want 100", got)
	}
}

// haloScene draws a dark head disc on mid-gray background with an optional
// bright ring around the disc, mimicking a bad background cutout.
func haloScene(withRing bool) (*image.RGBA, *geometry.FaceBox) {
	img := uniformImage(400, 400, gray(200))
	face := &geometry.FaceBox{X: 150, Y: 150, W: 100, H: 100}
	// Head center per the crown/chin estimate sits at (200, 191) with an
	// estimated head height of 118. The ring ends clear of the sampling
	// radii so boundary pixels never alias into the probes.
	drawDisc(img, 200, 191, 63, gray(80))
	if withRing {
		drawRing(img, 200, 191, 63.5, 95, gray(245))
	}
	return img, face
}

func TestHaloEdgeDetectsFringe(t *testing.T) {
	th := DefaultThresholds()
	r := geometry.DefaultRatios()

	img, face := haloScene(true)
	halo, edge := HaloEdge(img, face, r, th)
	if halo <= th.HaloWarnScore {
		t.Errorf("halo score = %f, want above %f", halo, th.HaloWarnScore)
	}
	if edge <= th.EdgeWarnScore {
		t.Errorf("edge score = %f, want above %f for a smooth ring", edge, th.EdgeWarnScore)
	}
}

func TestHaloEdgeCleanBackground(t *testing.T) {
	th := DefaultThresholds()
	r := geometry.DefaultRatios()

	img, face := haloScene(false)
	halo, edge := HaloEdge(img, face, r, th)
	if halo != 0 {
		t.Errorf("halo score = %f on clean background, want 0", halo)
	}
	if edge != 100 {
		t.Errorf("edge score = %f on clean background, want 100", edge)
	}
}

func TestHaloEdgeRoughCutout(t *testing.T) {
	th := DefaultThresholds()
	r := geometry.DefaultRatios()

	img, face := haloScene(false)
	// Redraw the boundary band as per-pixel noise.
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx, dy := float64(x)-200, float64(y)-191
			d2 := dx*dx + dy*dy
			if d2 >= 60*60 && d2 <= 95*95 {
				if (x+y)%2 == 0 {
					img.SetRGBA(x, y, gray(50))
				} else {
					img.SetRGBA(x, y, gray(250))
				}
			}
		}
	}
	_, edge := HaloEdge(img, face, r, th)
	if edge >= th.EdgeWarnScore {
		t.Errorf("edge score = %f on noisy cutout, want below %f", edge, th.EdgeWarnScore)
	}
}

func TestAnalyzeWithoutFace(t *testing.T) {
	th := DefaultThresholds()
	r := geometry.DefaultRatios()

	rep := Analyze(uniformImage(200, 200, gray(128)), nil, r, th)
	if rep.TiltDeg != 0 {
		t.Errorf("TiltDeg = %f, want 0 without a face", rep.TiltDeg)
	}
	if rep.LightingScore != 100 {
		t.Errorf("LightingScore = %f, want neutral 100", rep.LightingScore)
	}
	if rep.HaloScore != 0 || rep.EdgeScore != 100 {
		t.Errorf("halo/edge = %f/%f, want neutral 0/100", rep.HaloScore, rep.EdgeScore)
	}
	if rep.Exposure != ExposureNormal {
		t.Errorf("Exposure = %s, want %s", rep.Exposure, ExposureNormal)
	}
	if !rep.Grayscale {
		t.Error("uniform gray image should read as grayscale")
	}
}

func TestAnalyzeColorPortraitLooksHealthy(t *testing.T) {
	th := DefaultThresholds()
	r := geometry.DefaultRatios()

	// Checkered skin-tone face patch on a warm light background keeps
	// every probe in its healthy range.
	img := uniformImage(400, 400, color.RGBA{255, 235, 215, 255})
	for y := 150; y < 250; y++ {
		for x := 150; x < 250; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{224, 172, 140, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{180, 130, 100, 255})
			}
		}
	}
	face := &geometry.FaceBox{
		X: 150, Y: 150, W: 100, H: 100,
		LeftEye:  &geometry.Point{X: 180, Y: 192},
		RightEye: &geometry.Point{X: 220, Y: 192},
	}

	rep := Analyze(img, face, r, th)
	if rep.Grayscale {
		t.Error("skin-tone portrait must not read as grayscale")
	}
	if rep.Sharpness < th.BlurCutoff {
		t.Errorf("Sharpness = %f, want at least %f", rep.Sharpness, th.BlurCutoff)
	}
	if rep.Exposure != ExposureNormal {
		t.Errorf("Exposure = %s, want %s", rep.Exposure, ExposureNormal)
	}
	if math.Abs(rep.TiltDeg) > 0.01 {
		t.Errorf("TiltDeg = %f, want level", rep.TiltDeg)
	}
	if rep.LightingScore <= th.LightingWarnScore {
		t.Errorf("LightingScore = %f, want above %f", rep.LightingScore, th.LightingWarnScore)
	}
}

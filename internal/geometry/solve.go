package geometry

import (
	"math"

	"github.com/kozaktomas/photoid/internal/standard"
)

// Zoom slider bounds for user adjustments.
const (
	ZoomMin = 0.5
	ZoomMax = 3.0
)

// Solution is a solved crop together with the effective magnification and
// the conditions the solver could not satisfy.
type Solution struct {
	Crop CropRect `json:"crop"`
	// Scale maps source pixels to output pixels: output = source px * Scale.
	Scale float64 `json:"scale"`
	// NeedsPadding is set when the crop extends beyond the source image even
	// at the largest allowed head size. The renderer pads with white instead
	// of silently clipping.
	NeedsPadding bool `json:"needs_padding"`
	// SourceLimited is set when the crown or chin cannot get its margin with
	// any allowed framing of this source. Zoom and pan cannot fix it; only a
	// new photo can.
	SourceLimited bool `json:"source_limited"`
	FaceDetected  bool `json:"face_detected"`
}

// Solve produces the crop that, scaled to the standard's pixel dimensions,
// places the head and eyes at their mandated positions. Every input resolves
// to some rectangle; shortcomings are reported through the flags and the
// compliance findings, never as errors.
func Solve(srcW, srcH float64, face *FaceBox, spec standard.SpecPx, r Ratios) Solution {
	specW := float64(spec.W)
	specH := float64(spec.H)
	if srcW <= 0 || srcH <= 0 || specW <= 0 || specH <= 0 {
		return Solution{Crop: CropRect{W: specW, H: specH}, Scale: 1, NeedsPadding: true}
	}
	if face == nil || face.W <= 0 || face.H <= 0 {
		return centerCrop(srcW, srcH, specW, specH)
	}

	headPx := face.EstimatedHeadHeight(r)
	crownY := face.CrownY(r)
	chinY := face.ChinY()
	eyeY := EyeLineY(*face, r)
	eyeFromTop := specH - float64(spec.EyeFromBottomPx)

	targetScale := float64(spec.TargetHeadPx) / headPx
	maxScale := float64(spec.HeadMaxPx) / headPx
	fitScale := math.Max(specW/srcW, specH/srcH)

	sol := Solution{FaceDetected: true}
	scale := targetScale

	// A crop larger than the source can often be avoided by letting the head
	// grow toward the spec maximum. Past that the source is simply too small
	// and the output needs padding.
	if scale < fitScale {
		if fitScale <= maxScale {
			scale = fitScale
		} else {
			scale = maxScale
			sol.NeedsPadding = true
		}
	}

	cropW := specW / scale
	cropH := specH / scale
	cropX := face.CenterX() - cropW/2
	cropY := eyeY - eyeFromTop/scale

	// Crown headroom: shift the crop up when the crown sits closer to the
	// top edge than the minimum margin.
	if crownY-cropY < cropH*r.TopMargin {
		cropY = crownY - cropH*r.TopMargin
	}

	if cropY < 0 {
		if crownY >= cropH*r.TopMargin {
			// Enough source above the crown; the framing just sat too high.
			cropY = 0
		} else {
			// Out of source above the crown. Shrink the crop (bounded) so the
			// crown keeps its margin with the crop top at the source edge; the
			// head renders larger than target but stays under the spec maximum.
			needH := 0.0
			if crownY > 0 && r.TopMargin > 0 {
				needH = crownY / r.TopMargin
			}
			minH := (chinY - crownY) / (1 - r.TopMargin - r.BottomMargin)
			floorH := math.Max(cropH*(1-r.MaxZoomOut), specH/maxScale)
			if needH >= floorH && needH >= minH {
				cropH = needH
				scale = specH / cropH
				cropW = specW / scale
				cropX = face.CenterX() - cropW/2
				cropY = 0
			} else {
				cropY = 0
				sol.SourceLimited = true
			}
		}
	}

	// Chin margin: shift down, but never past the source bottom.
	if chinY > cropY+cropH*(1-r.BottomMargin) {
		shifted := math.Min(chinY-cropH*(1-r.BottomMargin), srcH-cropH)
		if shifted > cropY {
			cropY = shifted
		}
	}

	sol.Crop = clampCrop(CropRect{X: cropX, Y: cropY, W: cropW, H: cropH}, srcW, srcH, &sol.NeedsPadding)
	sol.Scale = scale
	if crownY < 0 || chinY > srcH || sol.NeedsPadding {
		sol.SourceLimited = true
	}
	return sol
}

// Adjustments are user slider tweaks applied on top of a solved crop.
type Adjustments struct {
	Zoom float64 `json:"zoom"`  // 1 = as solved, >1 = tighter crop
	PanX float64 `json:"pan_x"` // source px, positive moves the crop right
	PanY float64 `json:"pan_y"` // source px, positive moves the crop down
}

// Adjust applies zoom and pan to a solved crop, then re-enforces the crown,
// chin and centering constraints against the adjusted rectangle. The
// re-enforcement is what keeps a slider from producing a non-compliant
// photo: margins and centering always win over the requested pan/zoom.
func Adjust(sol Solution, face *FaceBox, srcW, srcH float64, r Ratios, adj Adjustments) Solution {
	base := sol.Crop
	if base.W <= 0 || base.H <= 0 {
		return sol
	}

	zoom := adj.Zoom
	if zoom == 0 {
		zoom = 1
	}
	zoom = clamp(zoom, ZoomMin, ZoomMax)

	cropW := base.W / zoom
	cropH := base.H / zoom
	cropX := base.CenterX() - cropW/2 + adj.PanX
	cropY := base.CenterY() - cropH/2 + adj.PanY

	out := sol
	if face != nil && face.W > 0 && face.H > 0 {
		crownY := face.CrownY(r)
		chinY := face.ChinY()

		// The crop must stay tall enough to hold crown and chin with their
		// margins; past that point the zoom slider stops having effect.
		minH := (chinY - crownY) / (1 - r.TopMargin - r.BottomMargin)
		if cropH < minH {
			cx := cropX + cropW/2
			cy := cropY + cropH/2
			aspect := base.W / base.H
			cropH = minH
			cropW = minH * aspect
			cropX = cx - cropW/2
			cropY = cy - cropH/2
		}

		if crownY-cropY < cropH*r.TopMargin {
			cropY = crownY - cropH*r.TopMargin
		}
		if chinY > cropY+cropH*(1-r.BottomMargin) {
			cropY = chinY - cropH*(1-r.BottomMargin)
		}

		offset := cropW * r.MaxCenterOffset
		cropX = clamp(cropX, face.CenterX()-cropW/2-offset, face.CenterX()-cropW/2+offset)
	}

	out.Crop = clampCrop(CropRect{X: cropX, Y: cropY, W: cropW, H: cropH}, srcW, srcH, &out.NeedsPadding)
	out.Scale = sol.Scale * base.W / out.Crop.W
	return out
}

func centerCrop(srcW, srcH, specW, specH float64) Solution {
	aspect := specW / specH
	cropW := srcW
	cropH := cropW / aspect
	if cropH > srcH {
		cropH = srcH
		cropW = cropH * aspect
	}
	return Solution{
		Crop:  CropRect{X: (srcW - cropW) / 2, Y: (srcH - cropH) / 2, W: cropW, H: cropH},
		Scale: specW / cropW,
	}
}

func clampCrop(c CropRect, srcW, srcH float64, needsPadding *bool) CropRect {
	if c.W > srcW {
		c.X = (srcW - c.W) / 2
		*needsPadding = true
	} else {
		c.X = clamp(c.X, 0, srcW-c.W)
	}
	if c.H > srcH {
		c.Y = (srcH - c.H) / 2
		*needsPadding = true
	} else {
		c.Y = clamp(c.Y, 0, srcH-c.H)
	}
	return c
}

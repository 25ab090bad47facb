package geometry

// Point is a pixel coordinate in source-image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceBox is a detector-reported bounding box (eyebrows to chin, narrower
// than the full head) in source-image pixel coordinates. Landmark points are
// optional and independently present.
type FaceBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	LeftEye  *Point `json:"left_eye,omitempty"`
	RightEye *Point `json:"right_eye,omitempty"`
	Nose     *Point `json:"nose,omitempty"`
	Mouth    *Point `json:"mouth,omitempty"`
}

func (f FaceBox) CenterX() float64 { return f.X + f.W/2 }
func (f FaceBox) CenterY() float64 { return f.Y + f.H/2 }
func (f FaceBox) Right() float64   { return f.X + f.W }

// ChinY returns the bottom edge of the box, which detectors align with the chin.
func (f FaceBox) ChinY() float64 { return f.Y + f.H }

// CrownY estimates the top of the head including hair, above the face box.
func (f FaceBox) CrownY(r Ratios) float64 { return f.Y - f.H*r.CrownClearance }

// EstimatedHeadHeight converts the face box height to full crown-to-chin
// head height using the shared head-to-face constant.
func (f FaceBox) EstimatedHeadHeight(r Ratios) float64 { return f.H * r.HeadToFace }

// Expand returns a copy of the box grown to fx times its width and fy times
// its height around its center.
func (f FaceBox) Expand(fx, fy float64) FaceBox {
	w := f.W * fx
	h := f.H * fy
	return FaceBox{
		X: f.CenterX() - w/2,
		Y: f.CenterY() - h/2,
		W: w,
		H: h,
	}
}

// Contains reports whether the pixel coordinate lies inside the box.
func (f FaceBox) Contains(x, y float64) bool {
	return x >= f.X && x < f.X+f.W && y >= f.Y && y < f.Y+f.H
}

// Scale returns a copy of the box with every coordinate multiplied by s,
// landmarks included. Maps detections from a downsampled working copy back
// to source coordinates.
func (f FaceBox) Scale(s float64) FaceBox {
	return FaceBox{
		X: f.X * s, Y: f.Y * s, W: f.W * s, H: f.H * s,
		LeftEye:  scalePoint(f.LeftEye, s),
		RightEye: scalePoint(f.RightEye, s),
		Nose:     scalePoint(f.Nose, s),
		Mouth:    scalePoint(f.Mouth, s),
	}
}

func scalePoint(p *Point, s float64) *Point {
	if p == nil {
		return nil
	}
	return &Point{X: p.X * s, Y: p.Y * s}
}

// EstimateEyes fills in missing eye points. Both present: returned as is.
// One present: the other is mirrored using the empirical eye-spacing ratio
// of the box width. Both absent: placed symmetrically at the configured
// fraction below the face top.
func EstimateEyes(f FaceBox, r Ratios) (left, right Point) {
	spacing := f.W * r.EyeSpacing
	switch {
	case f.LeftEye != nil && f.RightEye != nil:
		return *f.LeftEye, *f.RightEye
	case f.LeftEye != nil:
		return *f.LeftEye, Point{X: f.LeftEye.X + spacing, Y: f.LeftEye.Y}
	case f.RightEye != nil:
		return Point{X: f.RightEye.X - spacing, Y: f.RightEye.Y}, *f.RightEye
	default:
		y := f.Y + f.H*r.EyeFromFaceTop
		cx := f.CenterX()
		return Point{X: cx - spacing/2, Y: y}, Point{X: cx + spacing/2, Y: y}
	}
}

// EyeLineY returns the vertical midpoint of the (estimated) eye points.
func EyeLineY(f FaceBox, r Ratios) float64 {
	left, right := EstimateEyes(f, r)
	return (left.Y + right.Y) / 2
}

// CropRect is the source-image sub-rectangle that becomes the final photo
// after scaling. Value type, always replaced, never mutated in place.
type CropRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (c CropRect) CenterX() float64 { return c.X + c.W/2 }
func (c CropRect) CenterY() float64 { return c.Y + c.H/2 }
func (c CropRect) Right() float64   { return c.X + c.W }
func (c CropRect) Bottom() float64  { return c.Y + c.H }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

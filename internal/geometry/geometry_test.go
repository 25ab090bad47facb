package geometry

import (
	"math"
	"testing"
)

func TestEstimateEyes(t *testing.T) {
	r := DefaultRatios()
	box := FaceBox{X: 100, Y: 100, W: 200, H: 200}

	tests := []struct {
		name      string
		face      FaceBox
		wantLeft  Point
		wantRight Point
	}{
		{
			name: "both present are returned as is",
			face: func() FaceBox {
				f := box
				f.LeftEye = &Point{X: 150, Y: 180}
				f.RightEye = &Point{X: 250, Y: 184}
				return f
			}(),
			wantLeft:  Point{X: 150, Y: 180},
			wantRight: Point{X: 250, Y: 184},
		},
		{
			name: "right mirrored from left",
			face: func() FaceBox {
				f := box
				f.LeftEye = &Point{X: 150, Y: 180}
				return f
			}(),
			wantLeft:  Point{X: 150, Y: 180},
			wantRight: Point{X: 150 + 200*0.38, Y: 180},
		},
		{
			name: "left mirrored from right",
			face: func() FaceBox {
				f := box
				f.RightEye = &Point{X: 250, Y: 190}
				return f
			}(),
			wantLeft:  Point{X: 250 - 200*0.38, Y: 190},
			wantRight: Point{X: 250, Y: 190},
		},
		{
			name:      "both estimated from the box",
			face:      box,
			wantLeft:  Point{X: 200 - 200*0.38/2, Y: 100 + 200*0.42},
			wantRight: Point{X: 200 + 200*0.38/2, Y: 100 + 200*0.42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := EstimateEyes(tt.face, r)
			if !pointNear(left, tt.wantLeft) {
				t.Errorf("left eye = %+v, want %+v", left, tt.wantLeft)
			}
			if !pointNear(right, tt.wantRight) {
				t.Errorf("right eye = %+v, want %+v", right, tt.wantRight)
			}
		})
	}
}

func pointNear(a, b Point) bool {
	return math.Abs(a.X-b.X) < 0.0001 && math.Abs(a.Y-b.Y) < 0.0001
}

func TestFaceBoxExpand(t *testing.T) {
	f := FaceBox{X: 100, Y: 200, W: 100, H: 200}
	e := f.Expand(1.4, 1.6)

	if math.Abs(e.W-140) > 0.0001 || math.Abs(e.H-320) > 0.0001 {
		t.Errorf("expanded size = %.1fx%.1f, want 140x320", e.W, e.H)
	}
	// Expansion keeps the center.
	if math.Abs(e.CenterX()-f.CenterX()) > 0.0001 || math.Abs(e.CenterY()-f.CenterY()) > 0.0001 {
		t.Errorf("center moved from (%.1f, %.1f) to (%.1f, %.1f)",
			f.CenterX(), f.CenterY(), e.CenterX(), e.CenterY())
	}
}

func TestFaceBoxContains(t *testing.T) {
	f := FaceBox{X: 10, Y: 10, W: 20, H: 20}
	tests := []struct {
		x, y float64
		want bool
	}{
		{15, 15, true},
		{10, 10, true},  // top-left corner inclusive
		{30, 30, false}, // bottom-right corner exclusive
		{5, 15, false},
		{15, 35, false},
	}
	for _, tt := range tests {
		if got := f.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFaceBoxScale(t *testing.T) {
	f := FaceBox{
		X: 50, Y: 60, W: 100, H: 120,
		LeftEye: &Point{X: 80, Y: 100},
	}
	s := f.Scale(2.5)

	if s.X != 125 || s.Y != 150 || s.W != 250 || s.H != 300 {
		t.Errorf("scaled box = %+v, want {125 150 250 300}", s)
	}
	if s.LeftEye == nil || s.LeftEye.X != 200 || s.LeftEye.Y != 250 {
		t.Errorf("scaled left eye = %+v, want {200 250}", s.LeftEye)
	}
	if s.RightEye != nil || s.Nose != nil || s.Mouth != nil {
		t.Error("absent landmarks must stay absent")
	}
	// The original keeps its own landmark storage.
	s.LeftEye.X = 0
	if f.LeftEye.X != 80 {
		t.Error("scaling must not alias the source box's landmarks")
	}
}

func TestCrownAndChin(t *testing.T) {
	r := DefaultRatios()
	f := FaceBox{X: 220, Y: 180, W: 360, H: 360}

	if got := f.ChinY(); math.Abs(got-540) > 0.0001 {
		t.Errorf("chin = %.2f, want 540", got)
	}
	wantCrown := 180 - 360*r.CrownClearance
	if got := f.CrownY(r); math.Abs(got-wantCrown) > 0.0001 {
		t.Errorf("crown = %.2f, want %.2f", got, wantCrown)
	}
	if f.CrownY(r) >= f.Y {
		t.Error("crown must sit above the face box top")
	}
	wantHead := 360 * r.HeadToFace
	if got := f.EstimatedHeadHeight(r); math.Abs(got-wantHead) > 0.0001 {
		t.Errorf("head height = %.2f, want %.2f", got, wantHead)
	}
}

// Package detect finds faces in decoded images. Detection backends hide
// behind the Detector interface so the pipeline owns nothing but a handle;
// the built-in backend runs the pigo cascade classifier in-process.
package detect

import (
	"context"
	"image"

	"github.com/kozaktomas/photoid/internal/geometry"
)

// Detection is one detected face with its classifier confidence.
type Detection struct {
	Face  geometry.FaceBox `json:"face"`
	Score float64          `json:"score"`
}

// Detector turns an image into face detections. Implementations own their
// model data; callers own the lifecycle and must Close when done. The
// context matters for remote backends; the in-process one ignores it.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
	Close() error
}

// Largest picks the detection with the biggest box area. Group photos and
// false positives resolve toward the dominant subject this way.
func Largest(dets []Detection) *geometry.FaceBox {
	var best *geometry.FaceBox
	bestArea := 0.0
	for _, det := range dets {
		if area := det.Face.W * det.Face.H; area > bestArea {
			bestArea = area
			f := det.Face
			best = &f
		}
	}
	return best
}

// Keypoint names accepted in RawDetection.Keypoints.
const (
	KeypointLeftEye  = "left_eye"
	KeypointRightEye = "right_eye"
	KeypointNose     = "nose"
	KeypointMouth    = "mouth"
)

// RawDetection is the detector-agnostic wire format used when detections
// arrive from outside, such as a browser-side model. The box and keypoints
// are fractions of the image dimensions in [0,1].
type RawDetection struct {
	X         float64                   `json:"x"`
	Y         float64                   `json:"y"`
	W         float64                   `json:"w"`
	H         float64                   `json:"h"`
	Score     float64                   `json:"score"`
	Keypoints map[string]geometry.Point `json:"keypoints,omitempty"`
}

// ToPixels converts the normalized detection into pixel coordinates using
// the image's natural dimensions.
func (d RawDetection) ToPixels(imgW, imgH int) Detection {
	w, h := float64(imgW), float64(imgH)
	face := geometry.FaceBox{
		X: d.X * w,
		Y: d.Y * h,
		W: d.W * w,
		H: d.H * h,
	}
	face.LeftEye = keypointPx(d.Keypoints, KeypointLeftEye, w, h)
	face.RightEye = keypointPx(d.Keypoints, KeypointRightEye, w, h)
	face.Nose = keypointPx(d.Keypoints, KeypointNose, w, h)
	face.Mouth = keypointPx(d.Keypoints, KeypointMouth, w, h)
	return Detection{Face: face, Score: d.Score}
}

func keypointPx(kps map[string]geometry.Point, name string, w, h float64) *geometry.Point {
	p, ok := kps[name]
	if !ok {
		return nil
	}
	return &geometry.Point{X: p.X * w, Y: p.Y * h}
}

package detect

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/kozaktomas/photoid/internal/geometry"
)

// Cascade sweep parameters. The shift and scale factors follow the pigo
// defaults; the IoU threshold merges overlapping detections of one face.
const (
	cascadeShiftFactor = 0.1
	cascadeScaleFactor = 1.1
	clusterIoU         = 0.2
	minFaceSize        = 40
	minQuality         = 5.0
)

// PigoDetector runs the pigo cascade classifier in-process. The cascade is
// unpacked once at construction and read-only afterwards, so one detector
// may serve concurrent Detect calls.
type PigoDetector struct {
	classifier *pigo.Pigo
}

// NewPigoDetector loads and unpacks the binary cascade file at path.
func NewPigoDetector(path string) (*PigoDetector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read cascade file: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("could not unpack cascade file %s: %w", path, err)
	}
	return &PigoDetector{classifier: classifier}, nil
}

// Detect runs the cascade over the whole image and returns every face that
// clears the quality floor. Pigo reports square detections by center and
// size; they are converted to top-left boxes here. Pigo has no landmark
// support, so the keypoints stay nil and downstream estimation fills in.
func (d *PigoDetector) Detect(_ context.Context, img image.Image) ([]Detection, error) {
	if img == nil {
		return nil, nil
	}
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y
	if cols == 0 || rows == 0 {
		return nil, nil
	}

	cParams := pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     int(math.Min(float64(cols), float64(rows)) * 0.8),
		ShiftFactor: cascadeShiftFactor,
		ScaleFactor: cascadeScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, clusterIoU)

	out := make([]Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q < minQuality {
			continue
		}
		size := float64(det.Scale)
		out = append(out, Detection{
			Face: geometry.FaceBox{
				X: float64(det.Col) - size/2,
				Y: float64(det.Row) - size/2,
				W: size,
				H: size,
			},
			Score: float64(det.Q),
		})
	}
	return out, nil
}

// Close satisfies the Detector lifecycle; the cascade holds no resources
// beyond memory.
func (d *PigoDetector) Close() error { return nil }

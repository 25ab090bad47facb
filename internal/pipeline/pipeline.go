// Package pipeline runs one photo through face detection, quality and
// background analysis, crop solving and the compliance rules. One call per
// image; calls share nothing mutable, so images may be evaluated in
// parallel by simply invoking the pipeline from several goroutines.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/photoid/internal/background"
	"github.com/kozaktomas/photoid/internal/compliance"
	"github.com/kozaktomas/photoid/internal/detect"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/quality"
	"github.com/kozaktomas/photoid/internal/render"
	"github.com/kozaktomas/photoid/internal/standard"
)

// defaultWorkingMaxDim is the analysis resolution. Quality thresholds are
// calibrated against this size; change both together or not at all.
const defaultWorkingMaxDim = 1000

// Options bundles the calibration shared by every evaluation.
type Options struct {
	Ratios        geometry.Ratios
	Quality       quality.Thresholds
	Background    background.Thresholds
	HeadFraction  float64
	WorkingMaxDim int
}

// DefaultOptions returns the calibration shipped with the engine.
func DefaultOptions() Options {
	return Options{
		Ratios:        geometry.DefaultRatios(),
		Quality:       quality.DefaultThresholds(),
		Background:    background.DefaultThresholds(),
		HeadFraction:  standard.HeadTargetFraction,
		WorkingMaxDim: defaultWorkingMaxDim,
	}
}

// Pipeline evaluates photos against a standard. Safe for concurrent use.
type Pipeline struct {
	detector detect.Detector
	opts     Options
}

func New(detector detect.Detector, opts Options) *Pipeline {
	if opts.WorkingMaxDim <= 0 {
		opts.WorkingMaxDim = defaultWorkingMaxDim
	}
	if opts.HeadFraction <= 0 {
		opts.HeadFraction = standard.HeadTargetFraction
	}
	return &Pipeline{detector: detector, opts: opts}
}

// Result aggregates everything one evaluation produced.
type Result struct {
	ID          string               `json:"id"`
	Standard    string               `json:"standard"`
	SourceW     int                  `json:"source_w"`
	SourceH     int                  `json:"source_h"`
	Face        *geometry.FaceBox    `json:"face,omitempty"`
	Solution    geometry.Solution    `json:"solution"`
	Quality     quality.Report       `json:"quality"`
	Background  background.Report    `json:"background"`
	Findings    []compliance.Finding `json:"findings"`
	Advice      []compliance.Advice  `json:"advice"`
	NeedsRetake bool                 `json:"needs_retake"`
	ElapsedMS   int64                `json:"elapsed_ms"`
}

// Evaluate detects the dominant face and judges the photo against std. The
// zero-value Adjustments evaluates the base solve; non-zero values judge
// the photo the user would actually export.
func (p *Pipeline) Evaluate(ctx context.Context, img image.Image, std standard.PhotoStandard, adj geometry.Adjustments) (Result, error) {
	start := time.Now()
	if img == nil {
		return Result{}, errors.New("no image to evaluate")
	}
	if p.detector == nil {
		return Result{}, errors.New("no face detector configured")
	}

	working, factor := render.Downsample(img, p.opts.WorkingMaxDim)
	dets, err := p.detector.Detect(ctx, working)
	if err != nil {
		return Result{}, fmt.Errorf("face detection failed: %w", err)
	}

	var face *geometry.FaceBox
	if wf := detect.Largest(dets); wf != nil {
		f := wf.Scale(1 / factor)
		face = &f
	}
	return p.run(start, img, working, factor, face, std, adj), nil
}

// EvaluateWithFace judges the photo using an externally supplied face box
// in source coordinates, skipping the built-in detector. Pass nil to force
// the no-face path.
func (p *Pipeline) EvaluateWithFace(img image.Image, face *geometry.FaceBox, std standard.PhotoStandard, adj geometry.Adjustments) (Result, error) {
	start := time.Now()
	if img == nil {
		return Result{}, errors.New("no image to evaluate")
	}
	working, factor := render.Downsample(img, p.opts.WorkingMaxDim)
	return p.run(start, img, working, factor, face, std, adj), nil
}

func (p *Pipeline) run(start time.Time, img, working image.Image, factor float64, face *geometry.FaceBox, std standard.PhotoStandard, adj geometry.Adjustments) Result {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	spec := standard.PixelsAt(std, p.opts.HeadFraction)

	// The analyzers read the working copy, so they need the face in
	// working coordinates; the solver works in source coordinates.
	var workingFace *geometry.FaceBox
	if face != nil {
		wf := face.Scale(factor)
		workingFace = &wf
	}

	var (
		qrep quality.Report
		brep background.Report
		sol  geometry.Solution
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		qrep = quality.Analyze(working, workingFace, p.opts.Ratios, p.opts.Quality)
	}()
	go func() {
		defer wg.Done()
		brep = background.Evaluate(working, workingFace, p.opts.Background)
	}()
	go func() {
		defer wg.Done()
		sol = geometry.Solve(float64(srcW), float64(srcH), face, spec, p.opts.Ratios)
	}()
	wg.Wait()

	final := geometry.Adjust(sol, face, float64(srcW), float64(srcH), p.opts.Ratios, adj)

	findings := compliance.Evaluate(compliance.Input{
		SourceW:    srcW,
		SourceH:    srcH,
		Face:       face,
		Solution:   final,
		Spec:       spec,
		Std:        std,
		Quality:    qrep,
		Background: brep,
		Ratios:     p.opts.Ratios,
		Thresholds: p.opts.Quality,
	})
	plan := compliance.Classify(findings, final)

	return Result{
		ID:          uuid.NewString(),
		Standard:    std.ID,
		SourceW:     srcW,
		SourceH:     srcH,
		Face:        face,
		Solution:    final,
		Quality:     qrep,
		Background:  brep,
		Findings:    findings,
		Advice:      plan.Advice,
		NeedsRetake: plan.NeedsRetake,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
}

// Spec returns the pixel-resolved standard the pipeline would evaluate
// against, for callers that render or report dimensions themselves.
func (p *Pipeline) Spec(std standard.PhotoStandard) standard.SpecPx {
	return standard.PixelsAt(std, p.opts.HeadFraction)
}

// Ratios exposes the solver calibration for callers that re-adjust crops.
func (p *Pipeline) Ratios() geometry.Ratios {
	return p.opts.Ratios
}

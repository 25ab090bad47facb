// Package compliance turns the measured facts about a photo into findings,
// one per rule, and maps the non-passing ones to actionable advice. The
// engine is a single pass with no state between rules; rules that need a
// face are reported as pending when detection found none, so a missing face
// never hides the findings that can still be computed.
package compliance

import (
	"fmt"
	"math"

	"github.com/kozaktomas/photoid/internal/background"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/quality"
	"github.com/kozaktomas/photoid/internal/standard"
)

// Status of a single finding.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarn    Status = "warn"
	StatusFail    Status = "fail"
	StatusPending Status = "pending"
)

// Rule ids are stable; the retake classifier and the web layer key on them.
const (
	RuleFaceDetected  = "face_detected"
	RuleHeadSize      = "head_size"
	RuleEyePosition   = "eye_position"
	RuleHeadFraming   = "head_framing"
	RuleHeadCentering = "head_centering"
	RuleBackground    = "background"
	RuleResolution    = "resolution"
	RuleSharpness     = "sharpness"
	RuleFaceAngle     = "face_angle"
	RuleColorPhoto    = "color_photo"
	RuleLighting      = "lighting"
	RuleExposure      = "exposure"
	RuleEdgeQuality   = "edge_quality"
	RuleEyewearNote   = "eyewear_note"
)

// Finding is one rule's verdict.
type Finding struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ruleLabels maps rule ids to display names shown next to the status.
var ruleLabels = map[string]string{
	RuleFaceDetected:  "Face detected",
	RuleHeadSize:      "Head size",
	RuleEyePosition:   "Eye position",
	RuleHeadFraming:   "Head framing",
	RuleHeadCentering: "Head centering",
	RuleBackground:    "Background",
	RuleResolution:    "Resolution",
	RuleSharpness:     "Sharpness",
	RuleFaceAngle:     "Face angle",
	RuleColorPhoto:    "Color photo",
	RuleLighting:      "Lighting",
	RuleExposure:      "Exposure",
	RuleEdgeQuality:   "Edge quality",
	RuleEyewearNote:   "Eyewear and head coverings",
}

// Input carries everything the rule engine reads. Solution must be the
// final crop after any zoom/pan adjustment; head size and framing are
// judged against what the user will actually get, not the initial guess.
type Input struct {
	SourceW    int
	SourceH    int
	Face       *geometry.FaceBox
	Solution   geometry.Solution
	Spec       standard.SpecPx
	Std        standard.PhotoStandard
	Quality    quality.Report
	Background background.Report
	Ratios     geometry.Ratios
	Thresholds quality.Thresholds
}

// Centering bands as a fraction of crop width.
const (
	centerPassBand = 0.05
	centerWarnBand = 0.10
)

// Resolution floors for the shortest source side, in pixels.
const (
	resolutionPass = 600
	resolutionWarn = 400
)

// boundsEps absorbs float noise so that a head measuring exactly the spec
// minimum or maximum still passes the inclusive range check.
const boundsEps = 1e-6

// Evaluate runs the whole rule table and returns one finding per rule, in
// table order. The result is deterministic for identical inputs.
func Evaluate(in Input) []Finding {
	findings := make([]Finding, 0, 14)
	add := func(id string, st Status, message string) {
		findings = append(findings, Finding{ID: id, Label: ruleLabels[id], Status: st, Message: message})
	}
	hasFace := in.Face != nil

	if hasFace {
		add(RuleFaceDetected, StatusPass, "")
	} else {
		add(RuleFaceDetected, StatusFail, "no face detected; use a clear frontal portrait")
	}

	if !hasFace {
		add(RuleHeadSize, StatusPending, "")
	} else {
		head := in.Face.H * in.Ratios.HeadToFace * in.Solution.Scale
		lo, hi := float64(in.Spec.HeadMinPx), float64(in.Spec.HeadMaxPx)
		switch {
		case head < lo-boundsEps:
			add(RuleHeadSize, StatusFail, fmt.Sprintf("head is %.0fpx after cropping, below the %.0f-%.0fpx range; zoom in", head, lo, hi))
		case head > hi+boundsEps:
			add(RuleHeadSize, StatusFail, fmt.Sprintf("head is %.0fpx after cropping, above the %.0f-%.0fpx range; zoom out", head, lo, hi))
		default:
			add(RuleHeadSize, StatusPass, fmt.Sprintf("head height %.0fpx", head))
		}
	}

	if !hasFace {
		add(RuleEyePosition, StatusPending, "")
	} else if in.Face.LeftEye != nil && in.Face.RightEye != nil {
		add(RuleEyePosition, StatusPass, "")
	} else {
		add(RuleEyePosition, StatusWarn, "eye positions were estimated from the face outline")
	}

	if !hasFace {
		add(RuleHeadFraming, StatusPending, "")
	} else {
		crown := in.Face.CrownY(in.Ratios)
		chin := in.Face.ChinY()
		crop := in.Solution.Crop
		crownCut := crown < crop.Y-boundsEps
		chinCut := chin > crop.Bottom()+boundsEps
		switch {
		case crownCut && chinCut:
			add(RuleHeadFraming, StatusFail, "both crown and chin are cut off by the crop")
		case crownCut:
			add(RuleHeadFraming, StatusFail, "the crown is cut off by the crop")
		case chinCut:
			add(RuleHeadFraming, StatusFail, "the chin is cut off by the crop")
		default:
			add(RuleHeadFraming, StatusPass, "")
		}
	}

	if !hasFace {
		add(RuleHeadCentering, StatusPending, "")
	} else {
		offset := math.Abs(in.Face.CenterX()-in.Solution.Crop.CenterX()) / in.Solution.Crop.W
		switch {
		case offset < centerPassBand:
			add(RuleHeadCentering, StatusPass, "")
		case offset <= centerWarnBand:
			add(RuleHeadCentering, StatusWarn, fmt.Sprintf("face sits %.0f%% off center", offset*100))
		default:
			add(RuleHeadCentering, StatusFail, fmt.Sprintf("face sits %.0f%% off center; recenter with the position sliders", offset*100))
		}
	}

	switch in.Background.Verdict {
	case background.VerdictKeep:
		add(RuleBackground, StatusPass, "")
	case background.VerdictOptional:
		add(RuleBackground, StatusWarn, in.Background.Reason)
	default:
		add(RuleBackground, StatusFail, in.Background.Reason)
	}

	minDim := min(in.SourceW, in.SourceH)
	switch {
	case minDim >= resolutionPass:
		add(RuleResolution, StatusPass, "")
	case minDim >= resolutionWarn:
		add(RuleResolution, StatusWarn, fmt.Sprintf("shortest side is %dpx; %dpx or more is recommended", minDim, resolutionPass))
	default:
		add(RuleResolution, StatusFail, fmt.Sprintf("shortest side is %dpx; at least %dpx is required for print", minDim, resolutionWarn))
	}

	if in.Quality.Sharpness < in.Thresholds.BlurCutoff {
		add(RuleSharpness, StatusFail, fmt.Sprintf("photo is too blurry (sharpness %.0f)", in.Quality.Sharpness))
	} else {
		add(RuleSharpness, StatusPass, "")
	}

	if !hasFace {
		add(RuleFaceAngle, StatusPending, "")
	} else if math.Abs(in.Quality.TiltDeg) > in.Thresholds.TiltWarnDeg {
		add(RuleFaceAngle, StatusWarn, fmt.Sprintf("head is tilted %.1f degrees", in.Quality.TiltDeg))
	} else {
		add(RuleFaceAngle, StatusPass, "")
	}

	if in.Quality.Grayscale {
		add(RuleColorPhoto, StatusFail, "photo appears to be black and white; color is required")
	} else {
		add(RuleColorPhoto, StatusPass, "")
	}

	if !hasFace {
		add(RuleLighting, StatusPending, "")
	} else if in.Quality.LightingScore < in.Thresholds.LightingWarnScore {
		add(RuleLighting, StatusWarn, fmt.Sprintf("lighting across the face is uneven (score %.0f)", in.Quality.LightingScore))
	} else {
		add(RuleLighting, StatusPass, "")
	}

	switch in.Quality.Exposure {
	case quality.ExposureUnder:
		add(RuleExposure, StatusFail, "photo is under-exposed")
	case quality.ExposureOver:
		add(RuleExposure, StatusFail, "photo is over-exposed")
	default:
		add(RuleExposure, StatusPass, "")
	}

	if !hasFace {
		add(RuleEdgeQuality, StatusPending, "")
	} else if in.Quality.HaloScore > in.Thresholds.HaloWarnScore {
		add(RuleEdgeQuality, StatusWarn, "a bright halo around the head suggests a poor background cutout")
	} else if in.Quality.EdgeScore < in.Thresholds.EdgeWarnScore {
		add(RuleEdgeQuality, StatusWarn, "the cutout edges around the head look rough")
	} else {
		add(RuleEdgeQuality, StatusPass, "")
	}

	note := in.Std.Note
	if note == "" {
		note = "check the jurisdiction's guidance on eyewear and head coverings"
	}
	add(RuleEyewearNote, StatusPass, note)

	return findings
}

// ByID returns the finding with the given rule id, if present.
func ByID(findings []Finding, id string) (Finding, bool) {
	for _, f := range findings {
		if f.ID == id {
			return f, true
		}
	}
	return Finding{}, false
}

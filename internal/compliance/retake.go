package compliance

import (
	"sort"

	"github.com/kozaktomas/photoid/internal/geometry"
)

// Advice is one actionable item derived from a non-passing finding.
type Advice struct {
	RuleID   string   `json:"rule_id"`
	Priority int      `json:"priority"`
	Icon     string   `json:"icon"`
	Problem  string   `json:"problem"`
	Solution string   `json:"solution"`
	Tips     []string `json:"tips,omitempty"`
	// Adjustable is true when the sliders or the one-click background fix
	// can resolve the problem without a new photo.
	Adjustable bool `json:"adjustable"`
}

// Plan is the classifier output: advice sorted by ascending priority plus
// the overall retake call.
type Plan struct {
	Advice      []Advice `json:"advice"`
	NeedsRetake bool     `json:"needs_retake"`
}

// adviceTable is static metadata keyed by rule id. Rules with no entry are
// dropped silently so new rule ids never break the classifier.
var adviceTable = map[string]Advice{
	RuleFaceDetected: {
		Priority: 1,
		Icon:     "🚫",
		Problem:  "No face was found in the photo",
		Solution: "Retake the photo with a clear, frontal view of the face",
		Tips: []string{
			"face the camera directly with a neutral expression",
			"make sure the face is well lit and nothing covers it",
		},
	},
	RuleSharpness: {
		Priority: 2,
		Icon:     "🌫️",
		Problem:  "The photo is blurry",
		Solution: "Retake the photo with a steady camera and good focus",
		Tips: []string{
			"rest the camera on a stable surface or use a timer",
			"clean the lens before shooting",
		},
	},
	RuleColorPhoto: {
		Priority: 2,
		Icon:     "🎨",
		Problem:  "The photo is black and white",
		Solution: "Retake the photo in color",
	},
	RuleResolution: {
		Priority: 2,
		Icon:     "📐",
		Problem:  "The photo resolution is too low",
		Solution: "Use the original camera file instead of a downscaled copy",
		Tips: []string{
			"avoid screenshots and images saved from chat apps",
		},
	},
	RuleHeadFraming: {
		Priority: 2,
		Icon:     "✂️",
		Problem:  "Part of the head is cut off",
		Solution: "Zoom out until the whole head is visible",
	},
	RuleHeadSize: {
		Priority:   3,
		Icon:       "🔍",
		Problem:    "The head size is outside the allowed range",
		Solution:   "Use the zoom slider until the head fits the guide",
		Adjustable: true,
	},
	RuleHeadCentering: {
		Priority:   3,
		Icon:       "🎯",
		Problem:    "The face is not centered",
		Solution:   "Use the position sliders to center the face",
		Adjustable: true,
	},
	RuleBackground: {
		Priority:   4,
		Icon:       "🖼️",
		Problem:    "The background is not plain white",
		Solution:   "Apply the automatic background removal",
		Adjustable: true,
	},
	RuleExposure: {
		Priority:   4,
		Icon:       "💡",
		Problem:    "The photo is too dark or too bright",
		Solution:   "Use the brightness slider, or retake in even light",
		Adjustable: true,
	},
	RuleFaceAngle: {
		Priority: 5,
		Icon:     "🔄",
		Problem:  "The head is tilted",
		Solution: "Keep the head straight and level with the camera",
	},
	RuleLighting: {
		Priority: 5,
		Icon:     "☀️",
		Problem:  "The face is unevenly lit",
		Solution: "Face a window or light source straight on",
	},
	RuleEyePosition: {
		Priority: 5,
		Icon:     "👀",
		Problem:  "The eye positions could not be detected precisely",
		Solution: "Make sure both eyes are open and clearly visible",
	},
	RuleEdgeQuality: {
		Priority: 6,
		Icon:     "✨",
		Problem:  "The edges around the head look artificial",
		Solution: "Retake against a plain background instead of editing one in",
	},
}

// Classify maps every warn or fail finding to its advice and decides
// whether the photo needs a retake. Pending findings are unevaluated, not
// defects, and produce no advice.
func Classify(findings []Finding, sol geometry.Solution) Plan {
	var plan Plan
	for _, f := range findings {
		if f.Status != StatusWarn && f.Status != StatusFail {
			continue
		}
		adv, ok := adviceTable[f.ID]
		if !ok {
			continue
		}
		adv.RuleID = f.ID
		if f.ID == RuleHeadFraming && f.Status == StatusFail && sol.SourceLimited {
			// The source itself cuts off the head; no slider can fix it.
			adv.Solution = "Retake the photo with more space above and below the head"
			adv.Tips = []string{
				"the original photo cuts off part of the head, so zooming cannot restore it",
			}
			adv.Adjustable = false
		} else if f.ID == RuleHeadFraming {
			adv.Adjustable = true
		}
		plan.Advice = append(plan.Advice, adv)
		if retakeWorthy(f, sol) {
			plan.NeedsRetake = true
		}
	}
	sort.SliceStable(plan.Advice, func(i, j int) bool {
		return plan.Advice[i].Priority < plan.Advice[j].Priority
	})
	return plan
}

// retakeWorthy reports whether a finding rules out fixing the photo with
// the editing sliders alone.
func retakeWorthy(f Finding, sol geometry.Solution) bool {
	if f.Status != StatusFail {
		return false
	}
	switch f.ID {
	case RuleFaceDetected, RuleSharpness, RuleColorPhoto, RuleResolution:
		return true
	case RuleHeadFraming:
		return sol.SourceLimited
	}
	return false
}

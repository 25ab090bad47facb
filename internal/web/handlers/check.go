package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photoid/internal/database"
	"github.com/kozaktomas/photoid/internal/detect"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/pipeline"
)

// CheckHandler evaluates uploaded photos against a standard.
type CheckHandler struct {
	pipeline *pipeline.Pipeline
	store    Store
	log      *logrus.Logger
}

// NewCheckHandler creates a new check handler. store may be nil when
// history persistence is disabled.
func NewCheckHandler(pl *pipeline.Pipeline, store Store, log *logrus.Logger) *CheckHandler {
	return &CheckHandler{
		pipeline: pl,
		store:    store,
		log:      log,
	}
}

// parseAdjustments reads the optional zoom/pan form values. Absent values
// mean the solver's own framing.
func parseAdjustments(r *http.Request) geometry.Adjustments {
	var adj geometry.Adjustments
	if v, err := strconv.ParseFloat(r.FormValue("zoom"), 64); err == nil {
		adj.Zoom = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("pan_x"), 64); err == nil {
		adj.PanX = v
	}
	if v, err := strconv.ParseFloat(r.FormValue("pan_y"), 64); err == nil {
		adj.PanY = v
	}
	return adj
}

// Check evaluates a multipart photo upload. The optional "detection" field
// carries a browser-side face detection as normalized JSON; when present
// the server-side detector is skipped entirely.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	img, std, err := readPhotoForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	adj := parseAdjustments(r)

	var res pipeline.Result
	if raw := r.FormValue("detection"); raw != "" {
		var det detect.RawDetection
		if err := json.Unmarshal([]byte(raw), &det); err != nil {
			respondError(w, http.StatusBadRequest, "invalid detection payload")
			return
		}
		b := img.Bounds()
		face := det.ToPixels(b.Dx(), b.Dy()).Face
		res, err = h.pipeline.EvaluateWithFace(img, &face, std, adj)
	} else {
		res, err = h.pipeline.Evaluate(r.Context(), img, std, adj)
	}
	if err != nil {
		h.log.WithError(err).Error("evaluation failed")
		respondError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	h.recordHistory(r, res)

	respondJSON(w, http.StatusOK, res)
}

// recordHistory saves the verdict when a store is configured. Failures are
// logged and swallowed; history must never break an evaluation response.
func (h *CheckHandler) recordHistory(r *http.Request, res pipeline.Result) {
	if h.store == nil {
		return
	}

	ev := database.Evaluation{
		ID:           res.ID,
		StandardID:   res.Standard,
		SourceWidth:  res.SourceW,
		SourceHeight: res.SourceH,
		FaceDetected: res.Face != nil,
		NeedsRetake:  res.NeedsRetake,
		Findings:     res.Findings,
	}
	if err := h.store.Save(r.Context(), ev); err != nil {
		h.log.WithError(err).WithField("id", res.ID).Warn("could not save evaluation history")
	}
}

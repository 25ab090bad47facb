package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photoid/internal/imgio"
	"github.com/kozaktomas/photoid/internal/pipeline"
	"github.com/kozaktomas/photoid/internal/render"
	"github.com/kozaktomas/photoid/internal/segment"
)

// CropHandler renders compliant photos from uploads.
type CropHandler struct {
	pipeline *pipeline.Pipeline
	segment  *segment.Client
	log      *logrus.Logger
}

// NewCropHandler creates a new crop handler. segment may be nil when no
// background removal service is configured.
func NewCropHandler(pl *pipeline.Pipeline, seg *segment.Client, log *logrus.Logger) *CropHandler {
	return &CropHandler{
		pipeline: pl,
		segment:  seg,
		log:      log,
	}
}

// Crop solves the framing for an uploaded photo and returns the rendered
// JPEG at the standard's exact pixel dimensions. Accepts the same form
// fields as check plus "brightness" and "remove_background".
func (h *CropHandler) Crop(w http.ResponseWriter, r *http.Request) {
	img, std, err := readPhotoForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.FormValue("remove_background") == "true" {
		if h.segment == nil {
			respondError(w, http.StatusBadRequest, "background removal is not configured")
			return
		}
		cutout, err := h.segment.RemoveBackground(r.Context(), img)
		if err != nil {
			h.log.WithError(err).Error("background removal failed")
			respondError(w, http.StatusBadGateway, "background removal failed")
			return
		}
		img = segment.CompositeWhite(cutout)
	}

	adj := parseAdjustments(r)

	res, err := h.pipeline.Evaluate(r.Context(), img, std, adj)
	if err != nil {
		h.log.WithError(err).Error("evaluation failed")
		respondError(w, http.StatusInternalServerError, "evaluation failed")
		return
	}

	brightness := 0.0
	if v, err := strconv.ParseFloat(r.FormValue("brightness"), 64); err == nil {
		brightness = v
	}

	out := render.Photo(img, res.Solution, h.pipeline.Spec(std), brightness)
	data, err := imgio.EncodeJPEG(out)
	if err != nil {
		h.log.WithError(err).Error("could not encode photo")
		respondError(w, http.StatusInternalServerError, "could not encode photo")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Evaluation-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

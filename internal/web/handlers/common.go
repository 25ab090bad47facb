// Package handlers implements the HTTP API. Every handler speaks JSON
// except the crop endpoint, which returns the rendered photo itself.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/kozaktomas/photoid/internal/database"
	"github.com/kozaktomas/photoid/internal/imgio"
	"github.com/kozaktomas/photoid/internal/standard"
)

// maxUploadSize caps multipart photo uploads at 32 MB. Phone originals top
// out well under that.
const maxUploadSize = 32 << 20

// Store is the slice of the evaluation history repository the handlers
// need. A nil Store disables history without changing any handler wiring.
type Store interface {
	Save(ctx context.Context, ev database.Evaluation) error
	Recent(ctx context.Context, limit int) ([]database.Evaluation, error)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// readPhotoForm parses the multipart form shared by the check and crop
// endpoints: a "photo" file plus an optional "standard" id. An unknown
// standard id is a client error; an absent one means the default.
func readPhotoForm(r *http.Request) (image.Image, standard.PhotoStandard, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, standard.PhotoStandard{}, fmt.Errorf("failed to parse multipart form")
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		return nil, standard.PhotoStandard{}, fmt.Errorf("photo file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, standard.PhotoStandard{}, fmt.Errorf("could not read photo")
	}

	img, _, err := imgio.Decode(data)
	if err != nil {
		return nil, standard.PhotoStandard{}, fmt.Errorf("could not decode photo")
	}

	id := r.FormValue("standard")
	if id != "" && !standard.Known(id) {
		return nil, standard.PhotoStandard{}, fmt.Errorf("unknown standard: %s", id)
	}

	return img, standard.Lookup(id), nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

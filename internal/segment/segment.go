// Package segment talks to an external background removal service and
// flattens its transparent cutouts onto white.
package segment

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const removeEndpoint = "/api/remove"

// Client calls a rembg-style HTTP service. The service takes an image and
// returns a PNG cutout where everything but the subject is transparent.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// RemoveBackground sends the image to the service and decodes the returned
// cutout. The cutout keeps the source dimensions.
func (c *Client) RemoveBackground(ctx context.Context, img image.Image) (image.Image, error) {
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return nil, fmt.Errorf("could not encode image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "photo.png")
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(part, &payload); err != nil {
		return nil, fmt.Errorf("could not copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+removeEndpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "image/png")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("segmentation failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	cutout, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not decode cutout: %w", err)
	}
	return cutout, nil
}

// CompositeWhite draws the cutout over an opaque white canvas of the same
// size, so transparent regions become a clean white background.
func CompositeWhite(img image.Image) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

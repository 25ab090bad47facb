package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photoid/internal/config"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/imgio"
	"github.com/kozaktomas/photoid/internal/render"
	"github.com/kozaktomas/photoid/internal/segment"
	"github.com/kozaktomas/photoid/internal/standard"
)

var cropCmd = &cobra.Command{
	Use:   "crop [image]",
	Short: "Crop a photo to a document photo standard",
	Long: `Crop evaluates the photo, solves the compliant crop and writes the
result at the standard's exact pixel dimensions. Zoom, pan and
brightness let you nudge the automatic solution; the margins and
centering rules are re-enforced after every adjustment.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().StringP("standard", "s", standard.DefaultID, "Standard to crop for (see 'photoid standards')")
	cropCmd.Flags().StringP("output", "o", "", "Output file, defaults to <input>_<standard>.jpg")
	cropCmd.Flags().Float64("zoom", 1, "Zoom relative to the solved crop, >1 is tighter")
	cropCmd.Flags().Float64("pan-x", 0, "Horizontal pan in source pixels, positive moves right")
	cropCmd.Flags().Float64("pan-y", 0, "Vertical pan in source pixels, positive moves down")
	cropCmd.Flags().Float64("brightness", 0, "Brightness adjustment from -100 to 100")
	cropCmd.Flags().Bool("remove-background", false, "Replace the background with white using the segmentation service")
	rootCmd.AddCommand(cropCmd)
}

func runCrop(cmd *cobra.Command, args []string) error {
	path := args[0]

	std, err := resolveStandard(cmd)
	if err != nil {
		return err
	}

	cfg := config.Load()
	pl, detector, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	img, err := imgio.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	ctx := context.Background()

	if mustGetBool(cmd, "remove-background") {
		if !cfg.Segment.Enabled() {
			return fmt.Errorf("background removal requires PHOTOID_SEGMENT_URL to point at a segmentation service")
		}
		cutout, err := segment.NewClient(cfg.Segment.URL).RemoveBackground(ctx, img)
		if err != nil {
			return fmt.Errorf("failed to remove background: %w", err)
		}
		img = segment.CompositeWhite(cutout)
	}

	adj := geometry.Adjustments{
		Zoom: mustGetFloat64(cmd, "zoom"),
		PanX: mustGetFloat64(cmd, "pan-x"),
		PanY: mustGetFloat64(cmd, "pan-y"),
	}

	res, err := pl.Evaluate(ctx, img, std, adj)
	if err != nil {
		return fmt.Errorf("failed to evaluate photo: %w", err)
	}

	spec := pl.Spec(std)
	out := render.Photo(img, res.Solution, spec, mustGetFloat64(cmd, "brightness"))

	outPath := mustGetString(cmd, "output")
	if outPath == "" {
		outPath = deriveOutput(path, std.ID)
	}

	if err := imgio.Save(outPath, out); err != nil {
		return fmt.Errorf("failed to save photo: %w", err)
	}

	fmt.Printf("Cropped photo saved to %s\n", outPath)
	fmt.Printf("  Standard: %s (%s)\n", std.Name, std.ID)
	fmt.Printf("  Output:   %dx%d px (%gx%g %s at %d DPI)\n", spec.W, spec.H, std.Width, std.Height, std.Unit, standard.DPI)

	if res.Solution.NeedsPadding {
		fmt.Println("  Note: the crop reaches past the source image, missing areas were padded white.")
	}
	if res.NeedsRetake {
		fmt.Println("  Warning: the photo still has problems, run 'photoid check' for details.")
	}
	return nil
}

func deriveOutput(path, stdID string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + stdID + ".jpg"
}

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
	"github.com/kozaktomas/photoid/internal/standard"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet [image]",
	Short: "Lay out a cropped photo on a print sheet",
	Long: `Sheet crops the photo like 'photoid crop' and then tiles as many
copies as fit onto a print paper, with light gray cut guides between
them. Print the sheet at the paper's native size and cut along the
guides.`,
	Args: cobra.ExactArgs(1),
	RunE: runSheet,
}

func init() {
	sheetCmd.Flags().StringP("standard", "s", standard.DefaultID, "Standard to crop for (see 'photoid standards')")
	sheetCmd.Flags().StringP("paper", "p", "4x6", "Paper size: "+paperNames())
	sheetCmd.Flags().StringP("output", "o", "", "Output file, defaults to <input>_sheet.jpg")
	sheetCmd.Flags().Float64("brightness", 0, "Brightness adjustment from -100 to 100")
	rootCmd.AddCommand(sheetCmd)
}

func runSheet(cmd *cobra.Command, args []string) error {
	path := args[0]

	std, err := resolveStandard(cmd)
	if err != nil {
		return err
	}

	paperName := mustGetString(cmd, "paper")
	paper, ok := render.PaperByName(paperName)
	if !ok {
		return fmt.Errorf("unknown paper %q, supported sizes: %s", paperName, paperNames())
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

	res, err := pl.Evaluate(context.Background(), img, std, geometry.Adjustments{})
	if err != nil {
		return fmt.Errorf("failed to evaluate photo: %w", err)
	}

	spec := pl.Spec(std)
	photo := render.Photo(img, res.Solution, spec, mustGetFloat64(cmd, "brightness"))
	sheetImg, layout := render.Sheet(photo, spec, paper)

	outPath := mustGetString(cmd, "output")
	if outPath == "" {
		ext := filepath.Ext(path)
		outPath = strings.TrimSuffix(path, ext) + "_sheet.jpg"
	}

	if err := imgio.Save(outPath, sheetImg); err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}

	fmt.Printf("Print sheet saved to %s\n", outPath)
	fmt.Printf("  Paper:  %s (%gx%g mm)\n", paper.Name, paper.WidthMM, paper.HeightMM)
	fmt.Printf("  Layout: %d photos in %d rows of %d\n", layout.Count, layout.Rows, layout.Cols)

	if res.NeedsRetake {
		fmt.Println("  Warning: the photo still has problems, run 'photoid check' for details.")
	}
	return nil
}

func paperNames() string {
	var names []string
	for _, p := range render.Papers() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

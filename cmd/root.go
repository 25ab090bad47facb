package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photoid/internal/config"
	"github.com/kozaktomas/photoid/internal/detect"
	"github.com/kozaktomas/photoid/internal/pipeline"
	"github.com/kozaktomas/photoid/internal/standard"
)

var cascadePath string

var rootCmd = &cobra.Command{
	Use:   "photoid",
	Short: "A CLI tool for checking and cropping passport photos",
	Long: `Photo ID is a CLI application that evaluates portrait photos against
official document photo standards (US passport, Schengen visa, UK and
others), crops them to the required geometry and lays them out on print
sheets. All processing happens locally.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cascadePath, "cascade", "", "Path to the face detection cascade file (overrides PHOTOID_CASCADE)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// buildPipeline loads the face detector and assembles the evaluation
// pipeline from the calibration in cfg. The caller owns the detector
// and should Close it when done.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *detect.PigoDetector, error) {
	path := cfg.Detector.CascadePath
	if cascadePath != "" {
		path = cascadePath
	}

	detector, err := detect.NewPigoDetector(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load face detection cascade: %w", err)
	}

	return pipeline.New(detector, pipelineOptions(cfg)), detector, nil
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Ratios:        cfg.Calibration.Ratios,
		Quality:       cfg.Calibration.Quality,
		Background:    cfg.Calibration.Background,
		HeadFraction:  cfg.Calibration.HeadFraction,
		WorkingMaxDim: cfg.Calibration.WorkingMaxDim,
	}
}

// resolveStandard reads the --standard flag and rejects ids the catalog
// does not know instead of silently falling back to the default.
func resolveStandard(cmd *cobra.Command) (standard.PhotoStandard, error) {
	id := mustGetString(cmd, "standard")
	if !standard.Known(id) {
		return standard.PhotoStandard{}, fmt.Errorf("unknown standard %q, run 'photoid standards' to list the supported ones", id)
	}
	return standard.Lookup(id), nil
}

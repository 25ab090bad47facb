package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photoid/internal/config"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/imgio"
	"github.com/kozaktomas/photoid/internal/pipeline"
	"github.com/kozaktomas/photoid/internal/standard"
)

var checkCmd = &cobra.Command{
	Use:   "check [image]",
	Short: "Check a photo against a document photo standard",
	Long: `Check evaluates a portrait photo against a document photo standard and
prints every finding plus advice on how to fix the problems. With
--batch it checks every image in a directory using a worker pool.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("standard", "s", standard.DefaultID, "Standard to check against (see 'photoid standards')")
	checkCmd.Flags().Bool("json", false, "Print the full evaluation result as JSON")
	checkCmd.Flags().String("batch", "", "Check every image in this directory instead of a single file")
	checkCmd.Flags().Int("concurrency", 4, "Number of parallel workers in batch mode")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	batchDir := mustGetString(cmd, "batch")
	if batchDir == "" && len(args) == 0 {
		return fmt.Errorf("provide an image file or a --batch directory")
	}

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

	asJSON := mustGetBool(cmd, "json")

	if batchDir != "" {
		return runCheckBatch(pl, batchDir, std, mustGetInt(cmd, "concurrency"), asJSON)
	}

	path := args[0]
	img, err := imgio.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	res, err := pl.Evaluate(context.Background(), img, std, geometry.Adjustments{})
	if err != nil {
		return fmt.Errorf("failed to evaluate photo: %w", err)
	}

	if asJSON {
		return printJSON(res)
	}

	printResult(path, res, std)
	return nil
}

func printResult(path string, res *pipeline.Result, std standard.PhotoStandard) {
	spec := standard.Pixels(std)
	fmt.Printf("Photo:    %s (%dx%d px)\n", path, res.SourceW, res.SourceH)
	fmt.Printf("Standard: %s (%s), %dx%d px at %d DPI\n", std.Name, std.ID, spec.W, spec.H, standard.DPI)
	fmt.Println()

	for _, f := range res.Findings {
		if f.Message != "" {
			fmt.Printf("  %-7s  %s - %s\n", strings.ToUpper(f.Status), f.Label, f.Message)
		} else {
			fmt.Printf("  %-7s  %s\n", strings.ToUpper(f.Status), f.Label)
		}
	}
	fmt.Println()

	if len(res.Advice) > 0 {
		fmt.Printf("Found %d problems:\n\n", len(res.Advice))
		for i, adv := range res.Advice {
			fmt.Printf("%d. %s %s\n", i+1, adv.Icon, adv.Problem)
			fmt.Printf("   Fix: %s\n", adv.Solution)
			for _, tip := range adv.Tips {
				fmt.Printf("   Tip: %s\n", tip)
			}
		}
		fmt.Println()
	}

	switch {
	case res.NeedsRetake:
		fmt.Println("Verdict: the photo needs a retake.")
	case len(res.Advice) > 0:
		fmt.Println("Verdict: usable after adjustments, no retake needed.")
	default:
		fmt.Println("Verdict: the photo is compliant.")
	}
}

// batchResult pairs one input file with its evaluation or load error.
type batchResult struct {
	File   string           `json:"file"`
	Error  string           `json:"error,omitempty"`
	Result *pipeline.Result `json:"result,omitempty"`
}

func runCheckBatch(pl *pipeline.Pipeline, dir string, std standard.PhotoStandard, concurrency int, asJSON bool) error {
	files, err := listImages(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	// The progress bar would corrupt the JSON stream, so batch JSON mode
	// runs silent and prints everything at the end.
	var bar *progressbar.ProgressBar
	if !asJSON {
		fmt.Printf("Checking %d photos against %s with %d workers\n", len(files), std.ID, concurrency)
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Checking photos"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []batchResult
	)
	sem := make(chan struct{}, concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			br := batchResult{File: file}
			img, err := imgio.Load(file)
			if err != nil {
				br.Error = err.Error()
			} else if res, err := pl.Evaluate(context.Background(), img, std, geometry.Adjustments{}); err != nil {
				br.Error = err.Error()
			} else {
				br.Result = res
			}

			mu.Lock()
			results = append(results, br)
			mu.Unlock()

			if bar != nil {
				bar.Add(1)
			}
		}(file)
	}
	wg.Wait()

	// Workers finish in arbitrary order.
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	if asJSON {
		return printJSON(results)
	}

	fmt.Println()
	var okCount, retakeCount, errorCount int
	for _, br := range results {
		switch {
		case br.Error != "":
			errorCount++
			fmt.Printf("  ERROR   %s: %s\n", br.File, br.Error)
		case br.Result.NeedsRetake:
			retakeCount++
			fmt.Printf("  RETAKE  %s (%d problems)\n", br.File, len(br.Result.Advice))
		default:
			okCount++
			fmt.Printf("  OK      %s\n", br.File)
		}
	}
	fmt.Println()
	fmt.Printf("Batch complete: %d compliant, %d need a retake, %d failed\n", okCount, retakeCount, errorCount)
	return nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

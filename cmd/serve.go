package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photoid/internal/config"
	"github.com/kozaktomas/photoid/internal/database"
	"github.com/kozaktomas/photoid/internal/segment"
	"github.com/kozaktomas/photoid/internal/web"
	"github.com/kozaktomas/photoid/internal/web/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Photo ID web server.
The server exposes the evaluation pipeline as a JSON API for checking,
cropping and background replacement, plus an optional evaluation
history backed by PostgreSQL.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	pl, detector, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	// The history store and the segmentation client are both optional;
	// the handlers degrade per endpoint when they are nil.
	var store handlers.Store
	if cfg.Database.Enabled() {
		fmt.Printf("Connecting to PostgreSQL database...\n")
		pool, err := database.Connect(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		defer pool.Close()
		store = database.NewEvaluationRepository(pool)
		fmt.Printf("Evaluation history enabled (PostgreSQL)\n")
	} else {
		fmt.Printf("Evaluation history disabled, set DATABASE_URL to enable it\n")
	}

	var seg *segment.Client
	if cfg.Segment.Enabled() {
		seg = segment.NewClient(cfg.Segment.URL)
		fmt.Printf("Background removal enabled via %s\n", cfg.Segment.URL)
	} else {
		fmt.Printf("Background removal disabled, set PHOTOID_SEGMENT_URL to enable it\n")
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(pl, store, seg, host, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Photo ID on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/photoid/internal/background"
	"github.com/kozaktomas/photoid/internal/geometry"
	"github.com/kozaktomas/photoid/internal/quality"
	"github.com/kozaktomas/photoid/internal/standard"
)

//go:embed calibration.yaml
var calibrationYAML []byte

type Config struct {
	Detector    DetectorConfig
	Segment     SegmentConfig
	Database    DatabaseConfig
	Calibration CalibrationConfig
}

type DetectorConfig struct {
	CascadePath string // binary pigo cascade file (default cascade/facefinder)
}

type SegmentConfig struct {
	URL string // background removal service base URL (e.g., http://localhost:7000)
}

// Enabled reports whether a background removal service is configured.
// Without one the tool still evaluates backdrops, it just cannot replace them.
func (c *SegmentConfig) Enabled() bool {
	return c.URL != ""
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

// Enabled reports whether evaluation history should be persisted.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// CalibrationConfig bundles every tunable knob of the evaluation pipeline.
// Defaults are compiled in and the embedded calibration.yaml overlays them,
// so a loaded config is always fully populated.
type CalibrationConfig struct {
	Ratios        geometry.Ratios       `yaml:"ratios"`
	Quality       quality.Thresholds    `yaml:"quality"`
	Background    background.Thresholds `yaml:"background"`
	HeadFraction  float64               `yaml:"head_fraction"`
	WorkingMaxDim int                   `yaml:"working_max_dim"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envOr reads an environment variable with a fallback for when it is unset.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	calibration := CalibrationConfig{
		Ratios:        geometry.DefaultRatios(),
		Quality:       quality.DefaultThresholds(),
		Background:    background.DefaultThresholds(),
		HeadFraction:  standard.HeadTargetFraction,
		WorkingMaxDim: 1000,
	}
	if err := yaml.Unmarshal(calibrationYAML, &calibration); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded calibration.yaml: " + err.Error())
	}

	return &Config{
		Detector: DetectorConfig{
			CascadePath: envOr("PHOTOID_CASCADE", "cascade/facefinder"),
		},
		Segment: SegmentConfig{
			URL: os.Getenv("PHOTOID_SEGMENT_URL"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Calibration: calibration,
	}
}

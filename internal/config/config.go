// Package config loads and validates a single solver run's
// configuration: defaults, optionally overridden by a YAML file, then
// by environment variables -- the same precedence the teacher's
// logger.LoadConfig applies to its own settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidAlgorithm, ErrMissingSubgridSize, and ErrInvalidSize are the
// Configuration-kind errors spec.md §7 calls for: reported to the
// caller with usage text, no solver ever constructed.
var (
	ErrInvalidAlgorithm   = errors.New("config: unknown algorithm")
	ErrMissingSubgridSize = errors.New("config: subgrid_size (>= 2) is required for an NWFC algorithm")
	ErrInvalidSize        = errors.New("config: grid_size and num_runs must be positive")
)

// validAlgorithms is the exact algorithm surface from spec.md §6.
var validAlgorithms = map[string]bool{
	"FP":                     true,
	"FP_BACKTRACK":           true,
	"FP_DIAGONAL":            true,
	"FP_DIAGONAL_BACKTRACK":  true,
	"WFC":                    true,
	"WFC_BACKTRACK":          true,
	"WFC_DIAGONAL":           true,
	"WFC_DIAGONAL_BACKTRACK": true,
	"NWFC":                   true,
	"NWFC_BACKTRACK":         true,
}

// RunConfig is one solver invocation's full configuration: the command
// surface of spec.md §6.
type RunConfig struct {
	Algorithm     string `yaml:"algorithm"`
	TilesetPath   string `yaml:"tileset_path"`
	GridSize      int    `yaml:"grid_size"`
	Seed          int64  `yaml:"seed"`
	GenerateImage bool   `yaml:"generate_image"`
	NumRuns       int    `yaml:"num_runs"`
	SubgridSize   int    `yaml:"subgrid_size"`
}

// DefaultConfig returns a RunConfig with the same sensible single-run
// defaults the reference CLI falls back to absent any flags.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		Algorithm:     "WFC",
		TilesetPath:   "tiles",
		GridSize:      10,
		Seed:          0,
		GenerateImage: false,
		NumRuns:       1,
		SubgridSize:   0,
	}
}

// LoadConfig loads a RunConfig from path, falling back to defaults if
// the file doesn't exist, then applies environment variable overrides.
func LoadConfig(path string) (*RunConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return DefaultConfig(), err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets WFCGEN_* environment variables win over both
// defaults and the YAML file, mirroring logger.LoadConfig's LOG_*
// overrides.
func applyEnvOverrides(cfg *RunConfig) {
	if v := os.Getenv("WFCGEN_ALGORITHM"); v != "" {
		cfg.Algorithm = v
	}
	if v := os.Getenv("WFCGEN_TILESET_PATH"); v != "" {
		cfg.TilesetPath = v
	}
	if v := os.Getenv("WFCGEN_GRID_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GridSize = n
		}
	}
	if v := os.Getenv("WFCGEN_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("WFCGEN_NUM_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumRuns = n
		}
	}
	if v := os.Getenv("WFCGEN_SUBGRID_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SubgridSize = n
		}
	}
	if v := os.Getenv("WFCGEN_GENERATE_IMAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.GenerateImage = b
		}
	}
}

// Validate enforces spec.md §7's Configuration error kind: a bad
// algorithm name, a missing subgrid_size on an NWFC variant, or a
// non-positive size, all reported before any solver is constructed.
func (c *RunConfig) Validate() error {
	if !validAlgorithms[c.Algorithm] {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, c.Algorithm)
	}
	if c.GridSize <= 0 {
		return fmt.Errorf("%w: grid_size=%d", ErrInvalidSize, c.GridSize)
	}
	if c.NumRuns <= 0 {
		return fmt.Errorf("%w: num_runs=%d", ErrInvalidSize, c.NumRuns)
	}
	if c.IsNWFC() && c.SubgridSize < 2 {
		return fmt.Errorf("%w: subgrid_size=%d", ErrMissingSubgridSize, c.SubgridSize)
	}
	return nil
}

// IsNWFC reports whether the configured algorithm is an NWFC variant.
func (c *RunConfig) IsNWFC() bool {
	return strings.HasPrefix(c.Algorithm, "NWFC")
}

// IsWFC reports whether the configured algorithm is a (non-NWFC) WFC
// variant.
func (c *RunConfig) IsWFC() bool {
	return strings.HasPrefix(c.Algorithm, "WFC")
}

// Backtrack reports whether the configured algorithm enables
// backtracking.
func (c *RunConfig) Backtrack() bool {
	return strings.HasSuffix(c.Algorithm, "BACKTRACK")
}

// Diagonal reports whether the configured algorithm uses anti-diagonal
// cell-selection order rather than MRV (WFC family) or raster (FP
// family).
func (c *RunConfig) Diagonal() bool {
	return strings.Contains(c.Algorithm, "DIAGONAL")
}

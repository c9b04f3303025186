// Package config holds the cubegen runtime configuration and loads
// generator presets.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Config holds the cubegen runtime configuration.
type Config struct {
	Seed            int64  `json:"seed"`
	Generator       string `json:"generator"` // "default" or "flat"
	Preset          string `json:"preset"`    // preset file; empty uses the defaults
	Radius          int    `json:"radius"`    // horizontal radius in cubes around the origin
	MinCubeY        int    `json:"min_cube_y"`
	MaxCubeY        int    `json:"max_cube_y"`
	Populate        bool   `json:"populate"`
	Workers         int    `json:"workers"`
	OutputDir       string `json:"output_dir"`
	LogLevel        string `json:"log_level"`
	FixDensityCache bool   `json:"fix_density_cache"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator: "default",
		Radius:    4,
		MinCubeY:  0,
		MaxCubeY:  7,
		Populate:  true,
		Workers:   4,
		OutputDir: "cubes",
		LogLevel:  "info",
	}
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.Generator = fromFile.Generator
	}
	if !explicitFlags["preset"] {
		cfg.Preset = fromFile.Preset
	}
	if !explicitFlags["radius"] {
		cfg.Radius = fromFile.Radius
	}
	if !explicitFlags["min-y"] {
		cfg.MinCubeY = fromFile.MinCubeY
	}
	if !explicitFlags["max-y"] {
		cfg.MaxCubeY = fromFile.MaxCubeY
	}
	if !explicitFlags["populate"] {
		cfg.Populate = fromFile.Populate
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["out"] {
		cfg.OutputDir = fromFile.OutputDir
	}
	if !explicitFlags["log-level"] {
		cfg.LogLevel = fromFile.LogLevel
	}
	if !explicitFlags["fix-density-cache"] {
		cfg.FixDensityCache = fromFile.FixDensityCache
	}
}

// Validate checks the runtime options.
func (c *Config) Validate() error {
	switch {
	case c.Generator != "default" && c.Generator != "flat":
		return fmt.Errorf("unknown generator %q", c.Generator)
	case c.Radius < 0:
		return fmt.Errorf("radius must not be negative, got %d", c.Radius)
	case c.MinCubeY > c.MaxCubeY:
		return fmt.Errorf("min cube y %d above max cube y %d", c.MinCubeY, c.MaxCubeY)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.OutputDir == "":
		return fmt.Errorf("output dir must be set")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("parse log level: %w", err)
	}
	return l, nil
}

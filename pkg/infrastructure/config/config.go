// Package config provides the application configuration, loadable from a
// YAML file with sensible defaults for everything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the entire application configuration.
type Config struct {
	DataDir       string `yaml:"data_dir"`
	OutputDir     string `yaml:"output_dir"`
	ProductsFile  string `yaml:"products_file"`
	ShowRoomsFile string `yaml:"showrooms_file"`
	MergeRules    string `yaml:"merge_rules_file"`

	Year                    int    `yaml:"year"`
	WorkingDays             int    `yaml:"working_days"`
	ClosureWeekday          string `yaml:"closure_weekday"`
	AllowIncompletePackages bool   `yaml:"allow_incomplete_packages"`

	Solver  SolverConfig  `yaml:"solver"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig bounds the integer backend.
type SolverConfig struct {
	TimeLimitSeconds int     `yaml:"time_limit_seconds"`
	RelativeGap      float64 `yaml:"relative_gap"`
	Seed             int64   `yaml:"seed"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, "salesalloc")
	return Config{
		DataDir:        base,
		OutputDir:      filepath.Join(base, "output"),
		ProductsFile:   "products.csv",
		ShowRoomsFile:  "showrooms.csv",
		MergeRules:     "product_merge_rules.yml",
		Year:           time.Now().Year(),
		WorkingDays:    26,
		ClosureWeekday: "Friday",
		Solver: SolverConfig{
			TimeLimitSeconds: 240,
			RelativeGap:      0.001,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ProductsPath is the raw products CSV location.
func (c Config) ProductsPath() string { return filepath.Join(c.DataDir, c.ProductsFile) }

// ShowRoomsPath is the raw showrooms CSV location.
func (c Config) ShowRoomsPath() string { return filepath.Join(c.DataDir, c.ShowRoomsFile) }

// MergeRulesPath is the merge-rule YAML location.
func (c Config) MergeRulesPath() string { return filepath.Join(c.DataDir, c.MergeRules) }

// TransformDir holds the normalized inputs written by the transform step.
func (c Config) TransformDir() string { return filepath.Join(c.OutputDir, "1-transform") }

// CalculateDir holds the allocation outputs.
func (c Config) CalculateDir() string { return filepath.Join(c.OutputDir, "2-calculate") }

// ValidateDir holds the daily split and audit outputs.
func (c Config) ValidateDir() string { return filepath.Join(c.OutputDir, "3-validate") }

// Closure resolves the configured weekly closure day, defaulting to Friday.
func (c Config) Closure() time.Weekday {
	days := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	if d, ok := days[c.ClosureWeekday]; ok {
		return d
	}
	return time.Friday
}

// TimeLimit converts the solver's configured ceiling.
func (c Config) TimeLimit() time.Duration {
	return time.Duration(c.Solver.TimeLimitSeconds) * time.Second
}

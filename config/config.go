package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"doxreduce/internal/adapter/reducer"
)

// Config holds all configuration for doxreduce.
type Config struct {
	Reduce   ReduceConfig   `yaml:"reduce"`
	Scripts  ScriptsConfig  `yaml:"scripts"`
	Manifest ManifestConfig `yaml:"manifest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ReduceConfig holds HTML reduction configuration.
type ReduceConfig struct {
	Includes        []string `yaml:"includes"`
	Excludes        []string `yaml:"excludes"`
	Passes          []string `yaml:"passes"`       // subset of the canonical pipeline, run in canonical order
	EventMarker     string   `yaml:"event_marker"` // template wrapping event-typed variables
	Jobs            int      `yaml:"jobs"`
	ContinueOnError bool     `yaml:"continue_on_error"`
}

// ScriptsConfig holds navigation script reduction configuration.
type ScriptsConfig struct {
	Files  []string          `yaml:"files"`
	Labels map[string]string `yaml:"labels"`
}

// ManifestConfig holds reduction manifest configuration.
type ManifestConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultPasses is the canonical pass order of the reduction pipeline.
var DefaultPasses = reducer.PassNames()

var (
	ErrUnknownPass = reducer.ErrUnknownPass
	ErrInvalid     = errors.New("invalid configuration")
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Reduce: ReduceConfig{
			Includes:    []string{"*.html"},
			Excludes:    []string{},
			Passes:      append([]string(nil), DefaultPasses...),
			EventMarker: "vcs_event_c",
			Jobs:        1,
		},
		Scripts: ScriptsConfig{
			Files: []string{"menudata.js", "navtreedata.js"},
			Labels: map[string]string{
				"Main Page":                   "Main page",
				"Data Fields":                 "Data fields",
				"Data Structures":             "Data structures",
				"Data Structure Index":        "Data structure index",
				"File List":                   "File list",
				"VCS Developer Documentation": "Main page",
			},
		},
		Manifest: ManifestConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration can drive a reduction.
func (c *Config) Validate() error {
	if _, err := reducer.NewPipeline(c.Reduce.Passes, reducer.Options{EventMarker: c.Reduce.EventMarker}); err != nil {
		return err
	}
	if c.Reduce.EventMarker == "" {
		return fmt.Errorf("%w: reduce.event_marker must not be empty", ErrInvalid)
	}
	if c.Reduce.Jobs < 1 {
		return fmt.Errorf("%w: reduce.jobs must be at least 1, got %d", ErrInvalid, c.Reduce.Jobs)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for doxreduce.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "doxreduce.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(StateDir(dir), "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StateDir returns the directory holding doxreduce's own state.
func StateDir(dir string) string {
	return filepath.Join(dir, ".doxreduce")
}

// ManifestDBPath returns the path to the reduction manifest database.
func ManifestDBPath(dir string) string {
	return filepath.Join(StateDir(dir), "manifest.db")
}

// EnsureStateDir ensures the .doxreduce directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(StateDir(dir), 0755)
}

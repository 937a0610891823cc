// Package config holds the ambient, non-structural tunables of a run:
// whether a commit trace is written and where, verbose logging, and the
// default cycle ceiling the CLI runs for when the user doesn't supply one.
// It is deliberately separate from the fixed structural parameters in
// timing/pipeline (register counts, ROB depth): those define the machine
// being modeled and are not meant to vary run to run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the run-level tunables.
type Config struct {
	// TraceEnabled turns on the per-commit CSV trace. Default: false.
	TraceEnabled bool `json:"trace_enabled"`

	// TracePath is the directory the commit trace is written under.
	// Default: "trace_output".
	TracePath string `json:"trace_path"`

	// Verbose makes the CLI print a one-line summary of the loaded program
	// (word count and cycle budget) to its output before the run.
	// Default: false.
	Verbose bool `json:"verbose"`

	// DefaultMaxCycles bounds how long the CLI runs when the caller omits
	// an explicit cycle count. Default: 100000.
	DefaultMaxCycles uint64 `json:"default_max_cycles"`
}

// DefaultConfig returns the configuration the CLI uses when no config
// file is supplied.
func DefaultConfig() *Config {
	return &Config{
		TraceEnabled:     false,
		TracePath:        "trace_output",
		Verbose:          false,
		DefaultMaxCycles: 100000,
	}
}

// LoadConfig loads a Config from a JSON file, starting from the defaults
// so an omitted field keeps its default value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := DefaultConfig()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return c, nil
}

// SaveConfig writes c to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports whether c is usable.
func (c *Config) Validate() error {
	if c.DefaultMaxCycles == 0 {
		return fmt.Errorf("default_max_cycles must be > 0")
	}
	if c.TraceEnabled && c.TracePath == "" {
		return fmt.Errorf("trace_path must be set when trace_enabled is true")
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Package config handles configuration loading and validation for openclaw.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	History HistoryConfig `yaml:"history"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// HistoryConfig holds run-history store tunables.
type HistoryConfig struct {
	// Path overrides the run-history file location. Defaults to
	// <data-dir>/run-history.jsonl.
	Path string `yaml:"path"`
	// MaxEntries caps how many entries the in-memory cache retains.
	MaxEntries int `yaml:"max_entries"`
	// RotateMB is the on-disk size in mebibytes past which the log is halved.
	RotateMB int `yaml:"rotate_mb"`
}

// DefaultConfig returns a Config with built-in defaults applied.
func DefaultConfig() Config {
	return Config{
		History: HistoryConfig{
			MaxEntries: 1000,
			RotateMB:   5,
		},
	}
}

// Load reads the config file at configPath, merging over defaults. A missing
// config file is not an error; defaults apply.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.History.RotateMB == 0 {
		c.History.RotateMB = defaults.History.RotateMB
	}
}

// HistoryPath returns the resolved run-history file location.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.DataDir, "run-history.jsonl")
}

// RotateBytes returns the rotation threshold in bytes.
func (c *Config) RotateBytes() int64 {
	return int64(c.History.RotateMB) * 1024 * 1024
}

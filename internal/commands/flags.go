// Package commands implements the openclaw CLI command surface.
package commands

import (
	"os"
	"path/filepath"

	"github.com/openclaw/openclaw/internal/core/config"
	"github.com/openclaw/openclaw/internal/core/runner"
	"github.com/openclaw/openclaw/internal/store/jsonl"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// History is the run-history store
	History *jsonl.HistoryStore

	// Runner executes shell commands and records them
	Runner *runner.Runner
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "openclaw", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "openclaw")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.History.MaxEntries)
	assert.Equal(t, 5, cfg.History.RotateMB)
	assert.Equal(t, filepath.Join(dataDir, "run-history.jsonl"), cfg.HistoryPath())
	assert.Equal(t, int64(5*1024*1024), cfg.RotateBytes())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "config.yaml")

	yaml := `
history:
  path: /var/log/openclaw/runs.jsonl
  max_entries: 50
  rotate_mb: 1
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))

	cfg, err := Load(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, 1, cfg.History.RotateMB)
	assert.Equal(t, "/var/log/openclaw/runs.jsonl", cfg.HistoryPath())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("history:\n  max_entries: 10\n"), 0o644))

	cfg, err := Load(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.History.MaxEntries)
	assert.Equal(t, 5, cfg.History.RotateMB)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("history: [not a map"), 0o644))

	_, err := Load(configPath, dataDir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative max entries", func(c *Config) { c.History.MaxEntries = -1 }, true},
		{"zero rotate mb", func(c *Config) { c.History.RotateMB = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DataDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := DefaultConfig()
	cfg.DataDir = file

	assert.Error(t, cfg.Validate())
}

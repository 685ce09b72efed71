package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "openclaw.log")

	logger, closer, err := New("debug", file)
	require.NoError(t, err)

	logger.Info().Str("k", "v").Msg("hello")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "time")
}

func TestNew_AppendsAcrossInvocations(t *testing.T) {
	file := filepath.Join(t.TempDir(), "openclaw.log")

	for range 2 {
		logger, closer, err := New("info", file)
		require.NoError(t, err)
		logger.Info().Msg("line")
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(data))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("verbose", "")
	assert.Error(t, err)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "openclaw.log")

	logger, closer, err := New("warn", file)
	require.NoError(t, err)
	logger.Debug().Msg("dropped")
	logger.Warn().Msg("kept")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 1, countLines(data))
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}

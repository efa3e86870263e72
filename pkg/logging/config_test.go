package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/logging"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfig_File(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "logs", "lexicon.log")

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "debug",
		Format: "json",
		Output: path,
		Fields: map[string]any{"run": "nightly"},
	})
	logger.Info().Msg("file message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file message")
	assert.Contains(t, string(content), `"run":"nightly"`)
}

func TestNewLoggerFromConfig_Console(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "console.log")

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:   "info",
		Format:  "console",
		Output:  path,
		NoColor: true,
	})
	logger.Info().Str("locale", "de").Msg("console test")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "console test")
	assert.Contains(t, string(content), "INF")
}

func TestConfigure_Levels(t *testing.T) {
	tests := []struct {
		level     string
		logFunc   func() *zerolog.Event
		shouldLog bool
	}{
		{"debug", logging.Debug, true},
		{"info", logging.Debug, false},
		{"warn", logging.Warn, true},
		{"warn", logging.Info, false},
		{"error", logging.Error, true},
		{"off", logging.Error, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreDefault(t)
			var buf bytes.Buffer
			logging.Configure(&logging.Config{Level: tt.level, Format: "json", Output: "discard"})
			logging.SetDefault(logging.Default().Output(&buf))

			tt.logFunc().Msg("probe")

			if tt.shouldLog {
				assert.Contains(t, buf.String(), "probe")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, logging.ParseLevel("none"))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("bogus"))
}

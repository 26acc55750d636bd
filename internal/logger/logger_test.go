package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sadopc/studylog/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env: config.EnvProduction,
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(t.TempDir(), "logs", "studylog.log"),
		},
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	cfg := testConfig(t)

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("record added", zap.String("subject", "数学"))
	l.Debug("hidden")
	_ = l.Sync()

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "record added", entry["msg"])
	assert.Equal(t, "数学", entry["subject"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLevelFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Level = "verbose"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewDebugLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = config.EnvDevelopment
	cfg.Log.Level = "debug"
	cfg.Log.Format = "console"

	l, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewStderrWhenNoFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.File = ""

	l, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

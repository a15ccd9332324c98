package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
db:
  path: /data/field.db
log:
  level: debug
sync:
  endpoint: https://example.com/sync
  interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("FIELDMAP_CONFIG", path)
	t.Setenv("FIELDMAP_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/field.db", cfg.DB.Path)
	assert.Equal(t, "error", cfg.Log.Level, "env beats file")
	assert.Equal(t, "https://example.com/sync", cfg.Sync.Endpoint)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
}

func TestLoad_InvalidInterval(t *testing.T) {
	t.Setenv("FIELDMAP_SYNC_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{Log: LogConfig{Level: "debug"}}.LogLevel())
	assert.Equal(t, slog.LevelInfo, Config{Log: LogConfig{Level: "unknown"}}.LogLevel())
	assert.Equal(t, slog.LevelError, Config{Log: LogConfig{Level: "error"}}.LogLevel())
}

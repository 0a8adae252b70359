package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.False(t, cfg.Search.Enabled)
	assert.Equal(t, 30, cfg.Search.TimeoutSecs)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.HistorySize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
provider: anthropic
gemini:
  key: file-key
search:
  enabled: true
  engine_id: engine-7
batch:
  concurrency: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "file-key", cfg.Gemini.Key)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, "engine-7", cfg.Search.EngineID)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CUSIP_PROVIDER", "anthropic")
	t.Setenv("CUSIP_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("provider: [unclosed"), 0o644))
	t.Chdir(dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

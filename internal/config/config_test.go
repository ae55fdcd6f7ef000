package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "data/projects", cfg.Storage.Dir)
	assert.True(t, cfg.Storage.Watch)
	assert.Equal(t, 2, cfg.Pipeline.MaxChapterRevisions)
	assert.InDelta(t, 0.6, cfg.Outline.OverlapThreshold, 1e-9)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
  shutdown_timeout: 30s
storage:
  dir: /var/lib/architectd/projects
  watch: false
pipeline:
  max_chapter_revisions: 5
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/var/lib/architectd/projects", cfg.Storage.Dir)
	assert.False(t, cfg.Storage.Watch)
	assert.Equal(t, 5, cfg.Pipeline.MaxChapterRevisions)
	assert.Equal(t, "console", cfg.Logging.Format)

	// Unset values fall back to defaults.
	assert.Equal(t, "data/output", cfg.Storage.OutputDir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o600))

	t.Setenv("ARCHITECTD_SERVER_PORT", "7777")
	t.Setenv("ARCHITECTD_PIPELINE_MAX_CHAPTER_REVISIONS", "3")
	t.Setenv("ARCHITECTD_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Pipeline.MaxChapterRevisions)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad rate limit", func(c *Config) { c.Server.ChatRateLimit = -1 }},
		{"empty storage dir", func(c *Config) { c.Storage.Dir = "" }},
		{"zero revisions", func(c *Config) { c.Pipeline.MaxChapterRevisions = 0 }},
		{"threshold too high", func(c *Config) { c.Outline.OverlapThreshold = 1.5 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "logfmt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "server.port", envTransform("ARCHITECTD_SERVER_PORT"))
	assert.Equal(t, "pipeline.max_chapter_revisions",
		envTransform("ARCHITECTD_PIPELINE_MAX_CHAPTER_REVISIONS"))
	assert.Equal(t, "storage.output_dir", envTransform("ARCHITECTD_STORAGE_OUTPUT_DIR"))
}

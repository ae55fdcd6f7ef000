// Package config provides configuration loading for architectd.
//
// Configuration is layered: hardcoded defaults, then an optional YAML
// file, then ARCHITECTD_* environment variables on top.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the complete architectd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Outline  OutlineConfig  `koanf:"outline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Chat requests are rate limited per project.
	ChatRateLimit float64 `koanf:"chat_rate_limit"`
	ChatRateBurst int     `koanf:"chat_rate_burst"`
}

// StorageConfig holds the on-disk layout.
type StorageConfig struct {
	// Dir is where project state files live.
	Dir string `koanf:"dir"`

	// OutputDir is where assembled build guides are written.
	OutputDir string `koanf:"output_dir"`

	// Watch enables the filesystem watcher over Dir.
	Watch bool `koanf:"watch"`
}

// PipelineConfig holds phase pipeline tunables.
type PipelineConfig struct {
	// MaxChapterRevisions caps how many revision rounds a chapter may
	// go through before submissions are rejected.
	MaxChapterRevisions int `koanf:"max_chapter_revisions"`
}

// OutlineConfig holds outline validation tunables.
type OutlineConfig struct {
	// OverlapThreshold is the word-overlap ratio above which two
	// section summaries are flagged as redundant.
	OverlapThreshold float64 `koanf:"overlap_threshold"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			ChatRateLimit:   5,
			ChatRateBurst:   10,
		},
		Storage: StorageConfig{
			Dir:       "data/projects",
			OutputDir: "data/output",
			Watch:     true,
		},
		Pipeline: PipelineConfig{
			MaxChapterRevisions: 2,
		},
		Outline: OutlineConfig{
			OverlapThreshold: 0.6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ChatRateLimit <= 0 {
		return fmt.Errorf("server.chat_rate_limit must be positive, got %v", c.Server.ChatRateLimit)
	}
	if c.Server.ChatRateBurst < 1 {
		return fmt.Errorf("server.chat_rate_burst must be at least 1, got %d", c.Server.ChatRateBurst)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir must not be empty")
	}
	if c.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must not be empty")
	}
	if c.Pipeline.MaxChapterRevisions < 1 {
		return fmt.Errorf("pipeline.max_chapter_revisions must be at least 1, got %d",
			c.Pipeline.MaxChapterRevisions)
	}
	if c.Outline.OverlapThreshold <= 0 || c.Outline.OverlapThreshold > 1 {
		return fmt.Errorf("outline.overlap_threshold must be in (0, 1], got %v",
			c.Outline.OverlapThreshold)
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q",
			c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// applyDefaults fills zero values with the built-in defaults.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Server.ChatRateLimit == 0 {
		cfg.Server.ChatRateLimit = def.Server.ChatRateLimit
	}
	if cfg.Server.ChatRateBurst == 0 {
		cfg.Server.ChatRateBurst = def.Server.ChatRateBurst
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = def.Storage.Dir
	}
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = def.Storage.OutputDir
	}
	if cfg.Pipeline.MaxChapterRevisions == 0 {
		cfg.Pipeline.MaxChapterRevisions = def.Pipeline.MaxChapterRevisions
	}
	if cfg.Outline.OverlapThreshold == 0 {
		cfg.Outline.OverlapThreshold = def.Outline.OverlapThreshold
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}

// envTransform maps ARCHITECTD_* environment variables to config keys.
// The first underscore after the prefix separates the section from the
// field name:
//
//	ARCHITECTD_SERVER_PORT                    -> server.port
//	ARCHITECTD_PIPELINE_MAX_CHAPTER_REVISIONS -> pipeline.max_chapter_revisions
func envTransform(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, "ARCHITECTD_"))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

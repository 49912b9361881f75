// Package config loads the service configuration from an optional TOML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/ledgerworks/analyst-api/internal/chunker"
	"github.com/ledgerworks/analyst-api/internal/core/services"
)

// Config holds all service settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`

	// DataDir is where the SQLite database lives. Empty means the store's
	// default under the user's home directory.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the chunk window size in characters.
	ChunkSize int `toml:"chunk_size"`

	// SearchLimit caps ranked retrieval results.
	SearchLimit int `toml:"search_limit"`

	// FallbackLimit caps recency fallback results.
	FallbackLimit int `toml:"fallback_limit"`

	// RateLimitRPS is the sustained request rate allowed per instance.
	RateLimitRPS float64 `toml:"rate_limit_rps"`

	// RateLimitBurst is the burst size for the rate limiter.
	RateLimitBurst int `toml:"rate_limit_burst"`

	// MaxUploadMB bounds the multipart upload size.
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":8080",
		ChunkSize:      chunker.DefaultChunkSize,
		SearchLimit:    services.DefaultSearchLimit,
		FallbackLimit:  services.DefaultFallbackLimit,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		MaxUploadMB:    32,
	}
}

// Load builds the configuration from defaults, an optional TOML file and
// environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overrides settings from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ANALYST_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ANALYST_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ANALYST_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
}

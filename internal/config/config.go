// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath   string `env:"WCMS_DB_PATH" envDefault:"./data/wcms.db"`
	Env      string `env:"WCMS_ENV" envDefault:"development"`
	LogLevel string `env:"WCMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"WCMS_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"WCMS_CACHE_PREFIX" envDefault:"wcms:"`   // Redis key prefix
	CacheTTL     int    `env:"WCMS_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"WCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Translation writes
	BulkBatchSize int           `env:"WCMS_BULK_BATCH_SIZE" envDefault:"50"` // Items per bulk upsert chunk
	TxTimeout     time.Duration `env:"WCMS_TX_TIMEOUT" envDefault:"10s"`     // Upper bound for a single transaction
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks values that env parsing cannot express.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("WCMS_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("WCMS_CACHE_TTL must be positive, got %d", c.CacheTTL)
	}
	if c.CacheMaxSize < 0 {
		return fmt.Errorf("WCMS_CACHE_MAX_SIZE must not be negative, got %d", c.CacheMaxSize)
	}
	if c.BulkBatchSize <= 0 {
		return fmt.Errorf("WCMS_BULK_BATCH_SIZE must be positive, got %d", c.BulkBatchSize)
	}
	if c.TxTimeout <= 0 {
		return fmt.Errorf("WCMS_TX_TIMEOUT must be positive, got %s", c.TxTimeout)
	}
	return nil
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

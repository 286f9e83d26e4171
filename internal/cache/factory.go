// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"net/url"
	"time"
)

// Backend type names.
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// CacheConfig holds configuration for cache creation.
type CacheConfig struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration

	// FallbackToMemory serves from memory when Redis is unreachable
	FallbackToMemory bool
}

// Info describes the backend NewCache actually built.
type Info struct {
	Backend        string `json:"backend"`
	RedisURL       string `json:"redis_url,omitempty"` // sanitized
	IsFallback     bool   `json:"is_fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:             TypeMemory,
		Prefix:           "wcms:",
		DefaultTTL:       time.Hour,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// NewCache creates a cache backend based on the provided configuration.
// A redis type with an unreachable server yields a memory cache when
// FallbackToMemory is set, and an error otherwise.
func NewCache(cfg CacheConfig) (Backend, Info, error) {
	if cfg.Type == TypeRedis && cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		redisCache, err := NewRedisCache(opts)
		if err == nil {
			return redisCache, Info{Backend: TypeRedis, RedisURL: SanitizeRedisURL(cfg.RedisURL)}, nil
		}
		if !cfg.FallbackToMemory {
			return nil, Info{}, fmt.Errorf("connecting to redis: %w", err)
		}
		return newMemoryFromConfig(cfg), Info{
			Backend:        TypeMemory,
			RedisURL:       SanitizeRedisURL(cfg.RedisURL),
			IsFallback:     true,
			FallbackReason: err.Error(),
		}, nil
	}

	return newMemoryFromConfig(cfg), Info{Backend: TypeMemory}, nil
}

func newMemoryFromConfig(cfg CacheConfig) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL replaces the password of a Redis URL with "***".
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the read-through cache for translation queries.
// Entries are advisory: callers treat every failure as a miss.
package cache

import (
	"context"
	"time"
)

// Cacher defines the key-value operations of a cache backend.
// All implementations must be thread-safe.
// Values are []byte so that in-memory and Redis caches share one contract.
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns nil and ErrCacheMiss if not found or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the specified TTL.
	// If TTL is 0, uses the default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPattern removes every key matching a glob pattern
	// ("tr:element:*") and returns how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Has checks if a key exists in the cache (and is not expired).
	Has(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the cache.
	Close() error
}

// TagIndex maps dependency tags ("element:<id>") to the keys built from them.
type TagIndex interface {
	// AddTags records that key depends on tags. The association lives at
	// least as long as ttl.
	AddTags(ctx context.Context, key string, ttl time.Duration, tags ...string) error

	// KeysForTags returns the distinct keys recorded under any of tags.
	KeysForTags(ctx context.Context, tags ...string) ([]string, error)
}

// Backend is a cache with a reverse tag index.
type Backend interface {
	Cacher
	TagIndex
}

// StatsProvider is an optional interface for caches that provide statistics.
type StatsProvider interface {
	Stats() Stats
	ResetStats()
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int64      `json:"hits"`
	Misses  int64      `json:"misses"`
	Sets    int64      `json:"sets"`
	Items   int        `json:"items"`
	HitRate float64    `json:"hit_rate"`
	Size    int64      `json:"size_bytes,omitempty"` // Approximate size in bytes (memory backend only)
	ResetAt *time.Time `json:"reset_at,omitempty"`   // when stats were last reset (nil if never reset)
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

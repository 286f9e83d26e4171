// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// TypedCache provides type-safe caching operations using generics.
// It wraps a Backend and handles JSON serialization.
type TypedCache[T any] struct {
	cache      Backend
	defaultTTL time.Duration
}

// NewTypedCache creates a new TypedCache wrapping the given backend.
func NewTypedCache[T any](cache Backend, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value from the cache.
// A backend error or an undecodable entry is reported as a miss along with the error.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false, err
	}

	return &value, true, nil
}

// Set stores a value with the default TTL and records it under tags.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T, tags ...string) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL, tags...)
}

// SetWithTTL stores a value with a custom TTL and records it under tags.
// Tags are written before the value so that an entry is never reachable
// without being invalidatable.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value *T, ttl time.Duration, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if len(tags) > 0 {
		if err := c.cache.AddTags(ctx, key, ttl, tags...); err != nil {
			return err
		}
	}

	return c.cache.Set(ctx, key, data, ttl)
}

// Delete removes keys from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, keys ...string) error {
	return c.cache.Delete(ctx, keys...)
}

// Has checks if a key exists in the cache.
func (c *TypedCache[T]) Has(ctx context.Context, key string) bool {
	has, _ := c.cache.Has(ctx, key)
	return has
}

// GetOrSet retrieves a value from cache, or calls fn to compute it and
// stores the result under the tags fn returns.
// Cache failures never fail the call; fn errors are returned as is.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, []string, error)) (*T, error) {
	if value, ok, _ := c.Get(ctx, key); ok {
		return value, nil
	}

	value, tags, err := fn()
	if err != nil {
		return nil, err
	}

	_ = c.Set(ctx, key, value, tags...)

	return value, nil
}

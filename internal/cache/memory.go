// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"path"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is a thread-safe in-memory cache implementation.
// It is used when no Redis URL is configured and as the Redis fallback.
type MemoryCache struct {
	data       sync.Map
	defaultTTL time.Duration
	maxSize    int // Maximum number of entries (0 = unlimited)
	stopCh     chan struct{}
	closed     atomic.Bool

	// tags[tag][key] = expiry of the association
	tagMu sync.Mutex
	tags  map[string]map[string]time.Time

	// Statistics
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	size    atomic.Int64 // Approximate size in bytes
	resetAt atomic.Pointer[time.Time]
}

// memoryCacheEntry holds a cached value with its expiration time.
type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
	size      int64
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // Maximum number of entries (0 = unlimited)
	CleanupInterval time.Duration // Interval for expired entry cleanup (0 = no cleanup)
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
		tags:       make(map[string]map[string]time.Time),
	}

	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}

	return c
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	entry := val.(*memoryCacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.deleteEntry(key, entry)
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	// Return a copy to prevent mutation
	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache with the specified TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if c.maxSize > 0 {
		if _, exists := c.data.Load(key); !exists && c.count() >= c.maxSize {
			c.removeExpired()
			if c.count() >= c.maxSize {
				c.evictOne()
			}
		}
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &memoryCacheEntry{
		value:     valueCopy,
		expiresAt: time.Now().Add(ttl),
		size:      int64(len(value)),
	}

	if old, loaded := c.data.Swap(key, entry); loaded {
		c.size.Add(-old.(*memoryCacheEntry).size)
	}

	c.size.Add(entry.size)
	c.sets.Add(1)
	return nil
}

// Delete removes keys from the cache.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	for _, key := range keys {
		if val, loaded := c.data.LoadAndDelete(key); loaded {
			c.size.Add(-val.(*memoryCacheEntry).size)
		}
	}
	return nil
}

// DeleteByPattern removes all keys matching a path.Match style glob.
func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}

	removed := 0
	c.data.Range(func(key, value any) bool {
		k := key.(string)
		if ok, _ := path.Match(pattern, k); ok {
			if _, loaded := c.data.LoadAndDelete(k); loaded {
				c.size.Add(-value.(*memoryCacheEntry).size)
				removed++
			}
		}
		return true
	})
	return removed, nil
}

// Clear removes all entries and tags from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.data.Range(func(key, value any) bool {
		c.data.Delete(key)
		return true
	})
	c.size.Store(0)

	c.tagMu.Lock()
	c.tags = make(map[string]map[string]time.Time)
	c.tagMu.Unlock()
	return nil
}

// Has checks if a key exists in the cache (and is not expired).
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	val, ok := c.data.Load(key)
	if !ok {
		return false, nil
	}

	entry := val.(*memoryCacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.deleteEntry(key, entry)
		return false, nil
	}

	return true, nil
}

// AddTags records key under each tag until ttl elapses.
// An existing association is only ever extended.
func (c *MemoryCache) AddTags(_ context.Context, key string, ttl time.Duration, tags ...string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}
	expiresAt := time.Now().Add(ttl)

	c.tagMu.Lock()
	defer c.tagMu.Unlock()

	for _, tag := range tags {
		members, ok := c.tags[tag]
		if !ok {
			members = make(map[string]time.Time)
			c.tags[tag] = members
		}
		if cur, ok := members[key]; !ok || expiresAt.After(cur) {
			members[key] = expiresAt
		}
	}
	return nil
}

// KeysForTags returns the live keys recorded under any of tags, sorted.
func (c *MemoryCache) KeysForTags(_ context.Context, tags ...string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := time.Now()
	seen := make(map[string]struct{})

	c.tagMu.Lock()
	for _, tag := range tags {
		members := c.tags[tag]
		for key, expiresAt := range members {
			if now.After(expiresAt) {
				delete(members, key)
				continue
			}
			seen[key] = struct{}{}
		}
		if members != nil && len(members) == 0 {
			delete(c.tags, tag)
		}
	}
	c.tagMu.Unlock()

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Close stops the cleanup goroutine and releases resources.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   c.count(),
		HitRate: hitRate(hits, misses),
		Size:    c.size.Load(),
		ResetAt: c.resetAt.Load(),
	}
}

// ResetStats resets the cache statistics.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	now := time.Now()
	c.resetAt.Store(&now)
}

// Keys returns all keys in the cache (including expired ones).
func (c *MemoryCache) Keys() []string {
	var keys []string
	c.data.Range(func(key, value any) bool {
		keys = append(keys, key.(string))
		return true
	})
	return keys
}

func (c *MemoryCache) count() int {
	count := 0
	c.data.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// deleteEntry removes an entry and updates the size counter.
func (c *MemoryCache) deleteEntry(key string, entry *memoryCacheEntry) {
	if _, loaded := c.data.LoadAndDelete(key); loaded {
		c.size.Add(-entry.size)
	}
}

// evictOne drops the entry closest to expiry.
func (c *MemoryCache) evictOne() {
	var (
		victim string
		oldest *memoryCacheEntry
	)
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryCacheEntry)
		if oldest == nil || entry.expiresAt.Before(oldest.expiresAt) {
			victim, oldest = key.(string), entry
		}
		return true
	})
	if oldest != nil {
		c.deleteEntry(victim, oldest)
	}
}

// removeExpired removes all expired entries and tag associations.
func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.data.Range(func(key, value any) bool {
		entry := value.(*memoryCacheEntry)
		if now.After(entry.expiresAt) {
			c.deleteEntry(key.(string), entry)
		}
		return true
	})

	c.tagMu.Lock()
	for tag, members := range c.tags {
		for key, expiresAt := range members {
			if now.After(expiresAt) {
				delete(members, key)
			}
		}
		if len(members) == 0 {
			delete(c.tags, tag)
		}
	}
	c.tagMu.Unlock()
}

// cleanupLoop periodically removes expired entries.
func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Backend       = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)

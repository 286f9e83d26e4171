// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
)

// skipIfNoRedis skips the test if Redis is not configured and otherwise
// returns a cache under a unique prefix that is cleared on cleanup.
func skipIfNoRedis(t *testing.T) *RedisCache {
	t.Helper()

	url := os.Getenv("WCMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: WCMS_TEST_REDIS_URL not set")
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "wcms-test:" + uuid.NewString()[:8] + ":"
	opts.DefaultTTL = time.Minute

	cache, err := NewRedisCache(opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Clear(context.Background())
		_ = cache.Close()
	})
	return cache
}

func TestRedisCache_Basic(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "tr:id:1", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "tr:id:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want value", got)
	}

	has, err := cache.Has(ctx, "tr:id:1")
	if err != nil || !has {
		t.Errorf("Has = %v, %v; want true", has, err)
	}

	if err := cache.Delete(ctx, "tr:id:1", "tr:id:missing"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "tr:id:1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "short", []byte("v"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestRedisCache_DeleteByPattern(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	for _, key := range []string{"tr:element:a:all", "tr:element:a:active", "tr:id:x"} {
		_ = cache.Set(ctx, key, []byte("v"), 0)
	}
	_ = cache.AddTags(ctx, "tr:element:a:all", 0, "element:a")

	n, err := cache.DeleteByPattern(ctx, "tr:element:a:*")
	if err != nil {
		t.Fatalf("DeleteByPattern failed: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d keys, want 2", n)
	}
	if has, _ := cache.Has(ctx, "tr:id:x"); !has {
		t.Error("unmatched key was deleted")
	}

	// Tag sets are not values and survive pattern deletes
	n, err = cache.DeleteByPattern(ctx, "*")
	if err != nil {
		t.Fatalf("DeleteByPattern failed: %v", err)
	}
	if n != 1 {
		t.Errorf("removed %d keys, want 1", n)
	}
	keys, _ := cache.KeysForTags(ctx, "element:a")
	if len(keys) != 1 {
		t.Errorf("KeysForTags = %v, want tag set intact", keys)
	}
}

func TestRedisCache_Tags(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	_ = cache.AddTags(ctx, "tr:id:1", time.Minute, "translation:1", "element:e1")
	_ = cache.AddTags(ctx, "tr:element:e1:all", time.Minute, "element:e1")

	keys, err := cache.KeysForTags(ctx, "element:e1", "translation:1")
	if err != nil {
		t.Fatalf("KeysForTags failed: %v", err)
	}
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"tr:element:e1:all", "tr:id:1"}) {
		t.Errorf("KeysForTags = %v", keys)
	}
}

func TestRedisCache_ClearAndStats(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_ = cache.Set(ctx, "b", []byte("2"), 0)
	_ = cache.AddTags(ctx, "a", 0, "element:e1")
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Items != 2 {
		t.Errorf("Items = %d, want 2 (tag sets excluded)", stats.Items)
	}
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 2 {
		t.Errorf("stats = %+v", stats)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := cache.Stats().Items; got != 0 {
		t.Errorf("Items after Clear = %d, want 0", got)
	}
	if keys, _ := cache.KeysForTags(ctx, "element:e1"); len(keys) != 0 {
		t.Errorf("tags survived Clear: %v", keys)
	}
}

func TestRedisCache_Close(t *testing.T) {
	cache := skipIfNoRedis(t)
	ctx := context.Background()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close should succeed, got %v", err)
	}
}

func TestRedisCache_InvalidURL(t *testing.T) {
	opts := DefaultRedisCacheOptions()
	opts.URL = "not-a-redis-url"
	if _, err := NewRedisCache(opts); err == nil {
		t.Error("expected error with invalid URL, got nil")
	}
}

func TestRedisCache_EmptyURL(t *testing.T) {
	if _, err := NewRedisCache(DefaultRedisCacheOptions()); err == nil {
		t.Error("expected error with empty URL, got nil")
	}
}

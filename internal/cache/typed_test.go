// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testElement struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func TestTypedCache_BasicOperations(t *testing.T) {
	cache := NewTypedCache[testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)
	ctx := context.Background()

	el := &testElement{ID: "e1", Name: "hero-title", Order: 1}

	if err := cache.Set(ctx, "el:e1", el); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found, err := cache.Get(ctx, "el:e1")
	if err != nil || !found {
		t.Fatalf("Get = %v, %v; want found", found, err)
	}
	if *got != *el {
		t.Errorf("got %+v, want %+v", got, el)
	}

	if !cache.Has(ctx, "el:e1") {
		t.Error("expected Has to be true")
	}

	if err := cache.Delete(ctx, "el:e1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := cache.Get(ctx, "el:e1"); found {
		t.Error("expected el:e1 to be deleted")
	}
}

func TestTypedCache_CacheMiss(t *testing.T) {
	cache := NewTypedCache[testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)

	_, found, err := cache.Get(context.Background(), "nonexistent")
	if found {
		t.Error("expected not to find nonexistent key")
	}
	if err != nil {
		t.Errorf("a miss is not an error, got %v", err)
	}
}

func TestTypedCache_CorruptEntry(t *testing.T) {
	backend := newTestMemoryCache(t, time.Hour, 0)
	cache := NewTypedCache[testElement](backend, time.Hour)
	ctx := context.Background()

	_ = backend.Set(ctx, "el:bad", []byte("{not json"), 0)

	_, found, err := cache.Get(ctx, "el:bad")
	if found {
		t.Error("corrupt entry must not be reported as found")
	}
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestTypedCache_SetRecordsTags(t *testing.T) {
	backend := newTestMemoryCache(t, time.Hour, 0)
	cache := NewTypedCache[testElement](backend, time.Hour)
	ctx := context.Background()

	if err := cache.Set(ctx, "el:e1", &testElement{ID: "e1"}, "element:e1", "parent:p1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	keys, _ := backend.KeysForTags(ctx, "parent:p1")
	if len(keys) != 1 || keys[0] != "el:e1" {
		t.Errorf("KeysForTags = %v, want [el:e1]", keys)
	}
}

func TestTypedCache_SetWithTTL(t *testing.T) {
	cache := NewTypedCache[testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)
	ctx := context.Background()

	if err := cache.SetWithTTL(ctx, "short", &testElement{ID: "s"}, 50*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	if _, found, _ := cache.Get(ctx, "short"); found {
		t.Error("expected short TTL entry to expire")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	cache := NewTypedCache[testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)
	ctx := context.Background()

	calls := 0
	load := func() (*testElement, []string, error) {
		calls++
		return &testElement{ID: "e1", Name: "loaded"}, []string{"element:e1"}, nil
	}

	for range 3 {
		got, err := cache.GetOrSet(ctx, "el:e1", load)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got.Name != "loaded" {
			t.Errorf("Name = %q, want loaded", got.Name)
		}
	}

	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestTypedCache_GetOrSetError(t *testing.T) {
	cache := NewTypedCache[testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)
	ctx := context.Background()

	wantErr := errors.New("database unavailable")
	_, err := cache.GetOrSet(ctx, "el:e1", func() (*testElement, []string, error) {
		return nil, nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if cache.Has(ctx, "el:e1") {
		t.Error("failed load must not be cached")
	}
}

func TestTypedCache_SliceType(t *testing.T) {
	cache := NewTypedCache[[]testElement](newTestMemoryCache(t, time.Hour, 0), time.Hour)
	ctx := context.Background()

	list := []testElement{{ID: "a", Order: 1}, {ID: "b", Order: 2}}
	if err := cache.Set(ctx, "list", &list); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found, err := cache.Get(ctx, "list")
	if err != nil || !found {
		t.Fatalf("Get = %v, %v", found, err)
	}
	if len(*got) != 2 || (*got)[1].ID != "b" {
		t.Errorf("got %+v, want %+v", *got, list)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/olegiv/wcms-go/internal/model"
)

// TranslationCache caches translation reads and drops them by dependency.
// No method returns a cache error: failures are logged at WARN and the
// caller falls through to the database.
//
// Tag sets are never deleted on invalidation, only expired. A fill that
// registered its tags just before an invalidation stays reachable by the
// next one.
type TranslationCache struct {
	backend Backend
	single  *TypedCache[model.Translation]
	lists   *TypedCache[[]model.Translation]
	logger  *slog.Logger

	// epoch counts invalidations in this process.
	epoch atomic.Uint64
}

// NewTranslationCache creates a translation cache on top of backend.
func NewTranslationCache(backend Backend, ttl time.Duration, logger *slog.Logger) *TranslationCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationCache{
		backend: backend,
		single:  NewTypedCache[model.Translation](backend, ttl),
		lists:   NewTypedCache[[]model.Translation](backend, ttl),
		logger:  logger,
	}
}

// Get returns the translation cached under key.
func (c *TranslationCache) Get(ctx context.Context, key string) (*model.Translation, bool) {
	t, ok, err := c.single.Get(ctx, key)
	if err != nil {
		c.warn("cache read failed", key, err)
		return nil, false
	}
	return t, ok
}

// Epoch returns the invalidation counter. Read it before loading from the
// database and hand it to SetSince or SetListSince.
func (c *TranslationCache) Epoch() uint64 {
	return c.epoch.Load()
}

// Set caches t under key, tagged with its own, its element's and its language's IDs.
func (c *TranslationCache) Set(ctx context.Context, key string, t *model.Translation) {
	c.SetSince(ctx, key, t, c.Epoch())
}

// SetSince is Set for a value loaded after epoch was read. The value is not
// kept if an invalidation ran in between.
func (c *TranslationCache) SetSince(ctx context.Context, key string, t *model.Translation, epoch uint64) {
	if c.epoch.Load() != epoch {
		return
	}
	if err := c.single.Set(ctx, key, t, translationTags(*t)...); err != nil {
		c.warn("cache write failed", key, err)
		return
	}
	c.discardIfStale(ctx, key, epoch)
}

// GetList returns the translation list cached under key.
func (c *TranslationCache) GetList(ctx context.Context, key string) ([]model.Translation, bool) {
	list, ok, err := c.lists.Get(ctx, key)
	if err != nil {
		c.warn("cache read failed", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return *list, true
}

// SetList caches list under key. ownerTag names the entity the list belongs
// to, so that an empty list is still invalidated when a member is added.
func (c *TranslationCache) SetList(ctx context.Context, key, ownerTag string, list []model.Translation) {
	c.SetListSince(ctx, key, ownerTag, list, c.Epoch())
}

// SetListSince is SetList for a list loaded after epoch was read.
func (c *TranslationCache) SetListSince(ctx context.Context, key, ownerTag string, list []model.Translation, epoch uint64) {
	if c.epoch.Load() != epoch {
		return
	}
	tags := []string{ownerTag}
	for _, t := range list {
		tags = append(tags, translationTags(t)...)
	}
	if err := c.lists.Set(ctx, key, &list, dedupe(tags)...); err != nil {
		c.warn("cache write failed", key, err)
		return
	}
	c.discardIfStale(ctx, key, epoch)
}

// discardIfStale deletes key when an invalidation overlapped its write.
// An invalidation that starts after this check finds key through its tags.
func (c *TranslationCache) discardIfStale(ctx context.Context, key string, epoch uint64) {
	if c.epoch.Load() == epoch {
		return
	}
	if err := c.backend.Delete(ctx, key); err != nil {
		c.warn("cache delete failed", key, err)
	}
}

// Invalidate drops every cached read that depends on deps in one pass.
func (c *TranslationCache) Invalidate(ctx context.Context, deps Dependencies) {
	if deps.Empty() {
		return
	}
	c.epoch.Add(1)

	tags := deps.Tags()
	var errs error

	keys, err := c.backend.KeysForTags(ctx, tags...)
	errs = multierr.Append(errs, err)

	keys = append(keys, directKeys(deps)...)
	errs = multierr.Append(errs, c.backend.Delete(ctx, dedupe(keys)...))

	if errs != nil {
		c.logger.Warn("cache invalidation failed",
			"category", model.EventCategoryCache,
			"tags", len(tags),
			"errors", len(multierr.Errors(errs)),
			"error", errs,
		)
		return
	}

	c.logger.Debug("cache invalidated", "tags", len(tags), "keys", len(keys))
}

func (c *TranslationCache) warn(msg, key string, err error) {
	c.logger.Warn(msg, "category", model.EventCategoryCache, "key", key, "error", err)
}

func translationTags(t model.Translation) []string {
	return []string{
		TranslationTag(t.ID),
		ElementTag(t.ContentElementID),
		LanguageTag(t.LanguageID),
	}
}

// directKeys are the keys derivable from IDs alone. They are deleted even
// when the tag index lost track of them.
func directKeys(deps Dependencies) []string {
	var keys []string
	for _, id := range deps.TranslationIDs {
		keys = append(keys, TranslationKey(id))
	}
	for _, p := range deps.Pairs {
		keys = append(keys, PairKey(p.ContentElementID, p.LanguageID))
	}
	for _, id := range deps.ContentElementIDs {
		keys = append(keys, ElementListKey(id, false), ElementListKey(id, true))
	}
	for _, id := range deps.LanguageIDs {
		keys = append(keys, LanguageListKey(id, false), LanguageListKey(id, true))
	}
	return keys
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Manager owns the cache backend and the caches built on it.
type Manager struct {
	Translations *TranslationCache

	backend Backend
	info    Info
	logger  *slog.Logger
}

// NewManager creates a cache manager over an existing backend.
func NewManager(backend Backend, info Info, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		Translations: NewTranslationCache(backend, ttl, logger),
		backend:      backend,
		info:         info,
		logger:       logger,
	}
}

// Info describes the active backend.
func (m *Manager) Info() Info {
	return m.info
}

// Stats returns backend statistics, or zero values when the backend keeps none.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// ClearAll clears all caches and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.backend.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	m.logger.Info("cache cleared", "backend", m.info.Backend)
	return nil
}

// ClearPattern deletes the keys matching a glob pattern.
func (m *Manager) ClearPattern(ctx context.Context, pattern string) (int, error) {
	n, err := m.backend.DeleteByPattern(ctx, pattern)
	if err != nil {
		return 0, err
	}
	m.logger.Info("cache keys deleted", "pattern", pattern, "count", n)
	return n, nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}

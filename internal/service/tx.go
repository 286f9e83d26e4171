// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/store"
)

// Options tunes the services.
type Options struct {
	// TxTimeout bounds every write transaction.
	TxTimeout time.Duration
	// BatchSize is the bulk upsert chunk size.
	BatchSize int
	Logger    *slog.Logger
}

// DefaultOptions returns the defaults used when a field is zero.
func DefaultOptions() Options {
	return Options{
		TxTimeout: 10 * time.Second,
		BatchSize: 50,
		Logger:    slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TxTimeout <= 0 {
		o.TxTimeout = def.TxTimeout
	}
	if o.BatchSize <= 0 {
		o.BatchSize = def.BatchSize
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

// base holds what every service shares.
type base struct {
	db      *sql.DB
	queries *store.Queries
	cache   *cache.TranslationCache // nil disables caching
	opts    Options
	logger  *slog.Logger
}

func newBase(db *sql.DB, tc *cache.TranslationCache, opts Options) base {
	opts = opts.withDefaults()
	return base{
		db:      db,
		queries: store.New(db),
		cache:   tc,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// withTx runs fn in one transaction bounded by TxTimeout.
// Transactions begin with BEGIN IMMEDIATE (see store.NewDB), so concurrent
// writers serialize on the database lock.
func (b *base) withTx(ctx context.Context, op string, fn func(q *store.Queries) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.opts.TxTimeout)
	defer cancel()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}

	if err := fn(b.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			b.logger.Error("rollback failed", "op", op, "error", rbErr)
		}
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return classify(op, err)
	}
	return nil
}

// invalidate drops cached reads after a commit. It never fails.
func (b *base) invalidate(ctx context.Context, deps cache.Dependencies) {
	if b.cache == nil {
		return
	}
	// The caller's context may be done by now; invalidation still has to run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	b.cache.Invalidate(ctx, deps)
}

func (b *base) logWrite(msg, category string, args ...any) {
	b.logger.Info(msg, append([]any{"category", category}, args...)...)
}

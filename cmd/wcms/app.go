// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/config"
	"github.com/olegiv/wcms-go/internal/logging"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/service"
	"github.com/olegiv/wcms-go/internal/store"
)

// Timeouts for a whole command. Transactions have their own bound.
const (
	defaultTimeout = 30 * time.Second
	importTimeout  = 10 * time.Minute
)

// app holds everything a command needs.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger
	cache  *cache.Manager

	websites     *service.WebsiteService
	languages    *service.LanguageService
	elements     *service.ContentElementService
	translations *service.TranslationService
	events       *service.EventService
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", flags.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if flags.logLevel != "" {
		if err := os.Setenv("WCMS_LOG_LEVEL", flags.logLevel); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openDB opens and migrates the database.
func openDB(cfg *config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func openApp(flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so stdout stays machine-readable.
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	cacheCfg := cache.DefaultCacheConfig()
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.DefaultTTL = cfg.CacheTTLDuration()
	cacheCfg.MaxSize = cfg.CacheMaxSize
	if cfg.UseRedisCache() {
		cacheCfg.Type = cache.TypeRedis
		cacheCfg.RedisURL = cfg.RedisURL
	}
	backend, info, err := cache.NewCache(cacheCfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	switch {
	case info.IsFallback:
		logger.Warn("redis unavailable, using memory cache",
			"category", model.EventCategoryCache, "redis_url", info.RedisURL, "reason", info.FallbackReason)
	default:
		logger.Debug("cache ready", "backend", info.Backend)
	}
	manager := cache.NewManager(backend, info, cfg.CacheTTLDuration(), logger)

	opts := service.Options{
		TxTimeout: cfg.TxTimeout,
		BatchSize: cfg.BulkBatchSize,
		Logger:    logger,
	}

	return &app{
		cfg:          cfg,
		db:           db,
		logger:       logger,
		cache:        manager,
		websites:     service.NewWebsiteService(db, opts),
		languages:    service.NewLanguageService(db, manager.Translations, opts),
		elements:     service.NewContentElementService(db, manager.Translations, opts),
		translations: service.NewTranslationService(db, manager.Translations, opts),
		events:       service.NewEventService(db),
	}, nil
}

// Close releases the cache backend and the database, reporting every failure.
func (a *app) Close() error {
	var err error
	if cerr := a.cache.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("closing cache: %w", cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("closing database: %w", cerr))
	}
	return err
}

// withApp runs fn with an opened app and a context bounded by timeout.
func withApp(flags *globalFlags, timeout time.Duration, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(flags)
	if err != nil {
		return err
	}
	defer func() {
		for _, cerr := range multierr.Errors(a.Close()) {
			a.logger.Error("shutdown", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

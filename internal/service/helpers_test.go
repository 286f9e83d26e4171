// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/testutil"
)

type testEnv struct {
	db           *sql.DB
	backend      *cache.MemoryCache
	tc           *cache.TranslationCache
	websites     *WebsiteService
	languages    *LanguageService
	elements     *ContentElementService
	translations *TranslationService
	fixture      testutil.Fixture
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, Options{})
}

func newTestEnvWithOptions(t *testing.T, opts Options) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = backend.Close() })

	logger := testutil.TestLoggerSilent()
	if opts.Logger == nil {
		opts.Logger = logger
	}
	tc := cache.NewTranslationCache(backend, time.Hour, logger)

	return &testEnv{
		db:           db,
		backend:      backend,
		tc:           tc,
		websites:     NewWebsiteService(db, opts),
		languages:    NewLanguageService(db, tc, opts),
		elements:     NewContentElementService(db, tc, opts),
		translations: NewTranslationService(db, tc, opts),
		fixture:      testutil.SeedFixture(t, db),
	}
}

func (e *testEnv) addLanguage(t *testing.T, name, code string) *model.Language {
	t.Helper()
	lang, err := e.languages.Create(context.Background(), CreateLanguageInput{
		WebsiteID: e.fixture.WebsiteID,
		Name:      name,
		Code:      code,
	})
	require.NoError(t, err)
	return lang
}

func (e *testEnv) addElement(t *testing.T, name string, order int) *model.ContentElement {
	t.Helper()
	el, err := e.elements.Create(context.Background(), CreateContentElementInput{
		ParentID: e.fixture.SubSectionID,
		Name:     name,
		Type:     model.ElementTypeText,
		Order:    order,
	})
	require.NoError(t, err)
	return el
}

func (e *testEnv) addTranslation(t *testing.T, elementID, languageID, content string) *model.Translation {
	t.Helper()
	tr, err := e.translations.Create(context.Background(), CreateTranslationInput{
		Content:          content,
		LanguageID:       languageID,
		ContentElementID: elementID,
	})
	require.NoError(t, err)
	return tr
}

func ptr[T any](v T) *T {
	return &v
}

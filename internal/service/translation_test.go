// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/store"
)

func TestTranslationService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr, err := env.translations.Create(ctx, CreateTranslationInput{
		Content:          "Hello",
		LanguageID:       env.fixture.LanguageID,
		ContentElementID: env.fixture.ElementID,
		Metadata:         map[string]any{"source": "manual"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "Hello", tr.Content)
	assert.True(t, tr.IsActive)
	assert.Equal(t, "manual", tr.Metadata["source"])
	require.NotNil(t, tr.Language)
	assert.Equal(t, "en", tr.Language.Code)
	require.NotNil(t, tr.ContentElement)
	assert.Equal(t, "Title", tr.ContentElement.Name)
}

func TestTranslationService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateTranslationInput
	}{
		{"empty content", CreateTranslationInput{Content: "", LanguageID: env.fixture.LanguageID, ContentElementID: env.fixture.ElementID}},
		{"blank content", CreateTranslationInput{Content: "  \n", LanguageID: env.fixture.LanguageID, ContentElementID: env.fixture.ElementID}},
		{"malformed language", CreateTranslationInput{Content: "x", LanguageID: "not-a-uuid", ContentElementID: env.fixture.ElementID}},
		{"malformed element", CreateTranslationInput{Content: "x", LanguageID: env.fixture.LanguageID, ContentElementID: "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.translations.Create(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestTranslationService_CreateMissingReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.translations.Create(ctx, CreateTranslationInput{
		Content: "x", LanguageID: uuid.NewString(), ContentElementID: env.fixture.ElementID,
	})
	assert.True(t, IsNotFound(err), "got %v", err)

	_, err = env.translations.Create(ctx, CreateTranslationInput{
		Content: "x", LanguageID: env.fixture.LanguageID, ContentElementID: uuid.NewString(),
	})
	assert.True(t, IsNotFound(err), "got %v", err)
}

func TestTranslationService_CreateDuplicatePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	_, err := env.translations.Create(ctx, CreateTranslationInput{
		Content: "Again", LanguageID: env.fixture.LanguageID, ContentElementID: env.fixture.ElementID,
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err), "got %v", err)
}

func TestTranslationService_ConcurrentCreateSamePair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.translations.Create(ctx, CreateTranslationInput{
				Content:          fmt.Sprintf("attempt %d", i),
				LanguageID:       env.fixture.LanguageID,
				ContentElementID: env.fixture.ElementID,
			})
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	count, err := store.New(env.db).CountTranslationsByContentElement(ctx, env.fixture.ElementID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTranslationService_GetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	got, err := env.translations.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Language)

	_, err = env.translations.GetByID(ctx, uuid.NewString())
	assert.True(t, IsNotFound(err), "got %v", err)

	_, err = env.translations.GetByID(ctx, "nope")
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestTranslationService_MalformedIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	valid := env.fixture.ElementID

	// With the database closed, any store access would surface as a DatabaseError.
	require.NoError(t, env.db.Close())

	tests := []struct {
		name string
		call func() error
	}{
		{"get by id", func() error {
			_, err := env.translations.GetByID(ctx, "not-a-uuid")
			return err
		}},
		{"get by pair, element", func() error {
			_, err := env.translations.Get(ctx, "not-a-uuid", valid)
			return err
		}},
		{"get by pair, language", func() error {
			_, err := env.translations.Get(ctx, valid, "not-a-uuid")
			return err
		}},
		{"list by content element", func() error {
			_, err := env.translations.ListByContentElement(ctx, "not-a-uuid", false)
			return err
		}},
		{"list by language", func() error {
			_, err := env.translations.ListByLanguage(ctx, "not-a-uuid", true)
			return err
		}},
		{"update", func() error {
			_, err := env.translations.Update(ctx, "not-a-uuid", UpdateTranslationInput{Content: ptr("Hi")})
			return err
		}},
		{"soft delete", func() error {
			return env.translations.Delete(ctx, "not-a-uuid", false)
		}},
		{"hard delete", func() error {
			return env.translations.Delete(ctx, "not-a-uuid", true)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, IsValidation(err), "got %v", err)
			assert.False(t, IsDatabase(err), "got %v", err)
		})
	}
}

func TestTranslationService_GetByPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	got, err := env.translations.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Content)

	german := env.addLanguage(t, "Deutsch", "de")
	_, err = env.translations.Get(ctx, env.fixture.ElementID, german.ID)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "translation", nf.Entity)

	_, err = env.translations.Get(ctx, env.fixture.ElementID, uuid.NewString())
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "language", nf.Entity)

	_, err = env.translations.Get(ctx, uuid.NewString(), env.fixture.LanguageID)
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "content element", nf.Entity)
}

func TestTranslationService_ListByContentElementSortedByLanguageName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	german := env.addLanguage(t, "Deutsch", "de")
	french := env.addLanguage(t, "Français", "fr")

	env.addTranslation(t, env.fixture.ElementID, french.ID, "Bonjour")
	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")
	env.addTranslation(t, env.fixture.ElementID, german.ID, "Hallo")

	list, err := env.translations.ListByContentElement(ctx, env.fixture.ElementID, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Hallo", list[0].Content)
	assert.Equal(t, "Hello", list[1].Content)
	assert.Equal(t, "Bonjour", list[2].Content)
}

func TestTranslationService_ListByLanguageSortedByElementOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	third := env.addElement(t, "Third", 30)
	first := env.addElement(t, "First", 10)
	second := env.addElement(t, "Second", 20)

	env.addTranslation(t, third.ID, env.fixture.LanguageID, "3")
	env.addTranslation(t, first.ID, env.fixture.LanguageID, "1")
	env.addTranslation(t, second.ID, env.fixture.LanguageID, "2")

	list, err := env.translations.ListByLanguage(ctx, env.fixture.LanguageID, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{list[0].Content, list[1].Content, list[2].Content})
}

func TestTranslationService_ListActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	german := env.addLanguage(t, "Deutsch", "de")
	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")
	inactive := env.addTranslation(t, env.fixture.ElementID, german.ID, "Hallo")
	require.NoError(t, env.translations.Delete(ctx, inactive.ID, false))

	all, err := env.translations.ListByContentElement(ctx, env.fixture.ElementID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := env.translations.ListByContentElement(ctx, env.fixture.ElementID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Hello", active[0].Content)
}

func TestTranslationService_ListEmptyAndMissingOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	list, err := env.translations.ListByContentElement(ctx, env.fixture.ElementID, false)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = env.translations.ListByContentElement(ctx, uuid.NewString(), false)
	assert.True(t, IsNotFound(err), "got %v", err)

	_, err = env.translations.ListByLanguage(ctx, uuid.NewString(), false)
	assert.True(t, IsNotFound(err), "got %v", err)
}

func TestTranslationService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	updated, err := env.translations.Update(ctx, tr.ID, UpdateTranslationInput{
		Content:  ptr("Hello, world"),
		Metadata: map[string]any{"reviewed": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", updated.Content)
	assert.Equal(t, true, updated.Metadata["reviewed"])
	assert.True(t, updated.IsActive)

	cleared, err := env.translations.Update(ctx, tr.ID, UpdateTranslationInput{Metadata: map[string]any{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Metadata)
	assert.Equal(t, "Hello, world", cleared.Content)
}

func TestTranslationService_UpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	_, err := env.translations.Update(ctx, tr.ID, UpdateTranslationInput{})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = env.translations.Update(ctx, tr.ID, UpdateTranslationInput{Content: ptr(" ")})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = env.translations.Update(ctx, tr.ID, UpdateTranslationInput{LanguageID: ptr("bad")})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = env.translations.Update(ctx, uuid.NewString(), UpdateTranslationInput{Content: ptr("x")})
	assert.True(t, IsNotFound(err), "got %v", err)
}

func TestTranslationService_UpdateToTakenPairConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	german := env.addLanguage(t, "Deutsch", "de")
	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")
	de := env.addTranslation(t, env.fixture.ElementID, german.ID, "Hallo")

	_, err := env.translations.Update(ctx, de.ID, UpdateTranslationInput{
		LanguageID: ptr(env.fixture.LanguageID),
		Content:    ptr("changed"),
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err), "got %v", err)

	got, err := env.translations.GetByID(ctx, de.ID)
	require.NoError(t, err)
	assert.Equal(t, german.ID, got.LanguageID)
	assert.Equal(t, "Hallo", got.Content)
}

func TestTranslationService_UpdateMovesPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	german := env.addLanguage(t, "Deutsch", "de")
	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hallo")

	// Warm both pair lookups.
	_, err := env.translations.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	require.NoError(t, err)
	_, err = env.translations.Get(ctx, env.fixture.ElementID, german.ID)
	require.True(t, IsNotFound(err))

	moved, err := env.translations.Update(ctx, tr.ID, UpdateTranslationInput{LanguageID: ptr(german.ID)})
	require.NoError(t, err)
	assert.Equal(t, german.ID, moved.LanguageID)
	assert.Equal(t, "de", moved.Language.Code)

	_, err = env.translations.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	assert.True(t, IsNotFound(err), "old pair still served: %v", err)

	got, err := env.translations.Get(ctx, env.fixture.ElementID, german.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
}

func TestTranslationService_NoStaleReadsAfterUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "v1")

	// Populate every cached view of the translation.
	_, err := env.translations.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	_, err = env.translations.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	require.NoError(t, err)
	_, err = env.translations.ListByContentElement(ctx, env.fixture.ElementID, true)
	require.NoError(t, err)
	_, err = env.translations.ListByLanguage(ctx, env.fixture.LanguageID, false)
	require.NoError(t, err)

	_, err = env.translations.Update(ctx, tr.ID, UpdateTranslationInput{Content: ptr("v2")})
	require.NoError(t, err)

	byID, err := env.translations.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", byID.Content)

	byPair, err := env.translations.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	require.NoError(t, err)
	assert.Equal(t, "v2", byPair.Content)

	byElement, err := env.translations.ListByContentElement(ctx, env.fixture.ElementID, true)
	require.NoError(t, err)
	require.Len(t, byElement, 1)
	assert.Equal(t, "v2", byElement[0].Content)

	byLanguage, err := env.translations.ListByLanguage(ctx, env.fixture.LanguageID, false)
	require.NoError(t, err)
	require.Len(t, byLanguage, 1)
	assert.Equal(t, "v2", byLanguage[0].Content)
}

func TestTranslationService_CreateInvalidatesCachedEmptyList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	list, err := env.translations.ListByLanguage(ctx, env.fixture.LanguageID, true)
	require.NoError(t, err)
	require.Empty(t, list)
	cached, err := env.backend.Has(ctx, cache.LanguageListKey(env.fixture.LanguageID, true))
	require.NoError(t, err)
	assert.True(t, cached)

	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")

	list, err = env.translations.ListByLanguage(ctx, env.fixture.LanguageID, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTranslationService_SoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")
	_, err := env.translations.GetByID(ctx, tr.ID)
	require.NoError(t, err)

	require.NoError(t, env.translations.Delete(ctx, tr.ID, false))

	got, err := env.translations.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Hello", got.Content)

	active, err := env.translations.ListByLanguage(ctx, env.fixture.LanguageID, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTranslationService_HardDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tr := env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello")
	_, err := env.translations.GetByID(ctx, tr.ID)
	require.NoError(t, err)

	require.NoError(t, env.translations.Delete(ctx, tr.ID, true))

	_, err = env.translations.GetByID(ctx, tr.ID)
	assert.True(t, IsNotFound(err), "got %v", err)

	err = env.translations.Delete(ctx, tr.ID, true)
	assert.True(t, IsNotFound(err), "got %v", err)

	// The pair is free again.
	env.addTranslation(t, env.fixture.ElementID, env.fixture.LanguageID, "Hello again")
}

func TestTranslationService_WithoutCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewTranslationService(env.db, nil, Options{Logger: env.translations.logger})

	tr, err := svc.Create(ctx, CreateTranslationInput{
		Content: "Hello", LanguageID: env.fixture.LanguageID, ContentElementID: env.fixture.ElementID,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, tr.ID, UpdateTranslationInput{Content: ptr("Hi")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, env.fixture.ElementID, env.fixture.LanguageID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Content)
}

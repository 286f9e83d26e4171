// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the website, language, content element and
// translation operations on top of the store and the translation cache.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
)

// CreateTranslationInput holds the fields of a new translation.
type CreateTranslationInput struct {
	Content          string
	LanguageID       string
	ContentElementID string
	IsActive         *bool // nil means true
	Metadata         map[string]any
}

// UpdateTranslationInput is a partial update. Nil fields are left unchanged;
// a non-nil empty Metadata map clears the metadata.
type UpdateTranslationInput struct {
	Content          *string
	LanguageID       *string
	ContentElementID *string
	IsActive         *bool
	Metadata         map[string]any
}

func (in UpdateTranslationInput) empty() bool {
	return in.Content == nil && in.LanguageID == nil && in.ContentElementID == nil &&
		in.IsActive == nil && in.Metadata == nil
}

// TranslationService provides validated, transactional access to translations.
type TranslationService struct {
	base
}

// NewTranslationService creates a TranslationService.
// If tc is nil, reads always go to the database.
func NewTranslationService(db *sql.DB, tc *cache.TranslationCache, opts Options) *TranslationService {
	return &TranslationService{base: newBase(db, tc, opts)}
}

// Create inserts a translation for a (content element, language) pair that
// has none yet.
func (s *TranslationService) Create(ctx context.Context, in CreateTranslationInput) (*model.Translation, error) {
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := validateIDs("content_element", in.ContentElementID, "language", in.LanguageID); err != nil {
		return nil, err
	}
	metadata, err := encodeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	var created *model.Translation
	err = s.withTx(ctx, "create translation", func(q *store.Queries) error {
		if err := requireElement(ctx, q, in.ContentElementID); err != nil {
			return err
		}
		if err := requireLanguage(ctx, q, in.LanguageID); err != nil {
			return err
		}
		if _, err := q.GetTranslationByPair(ctx, store.GetTranslationByPairParams{
			ContentElementID: in.ContentElementID,
			LanguageID:       in.LanguageID,
		}); err == nil {
			return pairConflict(in.ContentElementID, in.LanguageID)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		now := time.Now().UTC()
		row, err := q.CreateTranslation(ctx, store.CreateTranslationParams{
			ID:               uuid.NewString(),
			ContentElementID: in.ContentElementID,
			LanguageID:       in.LanguageID,
			Content:          in.Content,
			IsActive:         boolOr(in.IsActive, true),
			Metadata:         metadata,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		if err != nil {
			return err
		}

		created, err = populateOne(ctx, q, row)
		return err
	})
	if err != nil {
		return nil, err
	}

	var deps cache.Dependencies
	deps.Add(created.ContentElementID, created.LanguageID, created.ID)
	s.invalidate(ctx, deps)

	s.logWrite("translation created", model.EventCategoryTranslation,
		"id", created.ID, "content_element_id", created.ContentElementID, "language_id", created.LanguageID)
	return created, nil
}

// GetByID returns a translation with populated references.
func (s *TranslationService) GetByID(ctx context.Context, id string) (*model.Translation, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}

	key := cache.TranslationKey(id)
	if t, ok := s.cacheGet(ctx, key); ok {
		return t, nil
	}
	epoch := s.cacheEpoch()

	row, err := s.queries.GetTranslation(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "translation", ID: id}
	}
	if err != nil {
		return nil, classify("get translation", err)
	}

	t, err := populateOne(ctx, s.queries, row)
	if err != nil {
		return nil, classify("get translation", err)
	}

	s.cacheSet(ctx, key, t, epoch)
	return t, nil
}

// Get returns the translation of a content element in a language.
func (s *TranslationService) Get(ctx context.Context, contentElementID, languageID string) (*model.Translation, error) {
	if err := validateIDs("content_element", contentElementID, "language", languageID); err != nil {
		return nil, err
	}

	key := cache.PairKey(contentElementID, languageID)
	if t, ok := s.cacheGet(ctx, key); ok {
		return t, nil
	}
	epoch := s.cacheEpoch()

	row, err := s.queries.GetTranslationByPair(ctx, store.GetTranslationByPairParams{
		ContentElementID: contentElementID,
		LanguageID:       languageID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		if err := requireElement(ctx, s.queries, contentElementID); err != nil {
			return nil, classify("get translation", err)
		}
		if err := requireLanguage(ctx, s.queries, languageID); err != nil {
			return nil, classify("get translation", err)
		}
		return nil, &NotFoundError{Entity: "translation", ID: contentElementID + "/" + languageID}
	}
	if err != nil {
		return nil, classify("get translation", err)
	}

	t, err := populateOne(ctx, s.queries, row)
	if err != nil {
		return nil, classify("get translation", err)
	}

	s.cacheSet(ctx, key, t, epoch)
	return t, nil
}

// ListByContentElement returns the translations of a content element,
// ordered by language display name.
func (s *TranslationService) ListByContentElement(ctx context.Context, contentElementID string, activeOnly bool) ([]model.Translation, error) {
	if err := validateID("content_element", contentElementID); err != nil {
		return nil, err
	}

	key := cache.ElementListKey(contentElementID, activeOnly)
	if list, ok := s.cacheGetList(ctx, key); ok {
		return list, nil
	}
	epoch := s.cacheEpoch()

	if err := requireElement(ctx, s.queries, contentElementID); err != nil {
		return nil, classify("list translations", err)
	}

	rows, err := s.queries.ListTranslations(ctx, store.ListTranslationsParams{
		ContentElementID: contentElementID,
		ActiveOnly:       activeOnly,
	})
	if err != nil {
		return nil, classify("list translations", err)
	}

	list, err := populate(ctx, s.queries, rows)
	if err != nil {
		return nil, classify("list translations", err)
	}
	sortByLanguageName(list)

	s.cacheSetList(ctx, key, cache.ElementTag(contentElementID), list, epoch)
	return list, nil
}

// ListByLanguage returns the translations in a language, ordered by
// content element order.
func (s *TranslationService) ListByLanguage(ctx context.Context, languageID string, activeOnly bool) ([]model.Translation, error) {
	if err := validateID("language", languageID); err != nil {
		return nil, err
	}

	key := cache.LanguageListKey(languageID, activeOnly)
	if list, ok := s.cacheGetList(ctx, key); ok {
		return list, nil
	}
	epoch := s.cacheEpoch()

	if err := requireLanguage(ctx, s.queries, languageID); err != nil {
		return nil, classify("list translations", err)
	}

	rows, err := s.queries.ListTranslations(ctx, store.ListTranslationsParams{
		LanguageID: languageID,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, classify("list translations", err)
	}

	list, err := populate(ctx, s.queries, rows)
	if err != nil {
		return nil, classify("list translations", err)
	}
	sortByElementOrder(list)

	s.cacheSetList(ctx, key, cache.LanguageTag(languageID), list, epoch)
	return list, nil
}

// Update applies a partial update. Moving a translation to another pair
// requires both targets to exist and the pair to be free.
func (s *TranslationService) Update(ctx context.Context, id string, in UpdateTranslationInput) (*model.Translation, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
	}
	if in.ContentElementID != nil {
		if err := validateID("content_element", *in.ContentElementID); err != nil {
			return nil, err
		}
	}
	if in.LanguageID != nil {
		if err := validateID("language", *in.LanguageID); err != nil {
			return nil, err
		}
	}
	var metadata sql.NullString
	if in.Metadata != nil {
		var err error
		if metadata, err = encodeMetadata(in.Metadata); err != nil {
			return nil, err
		}
		if len(in.Metadata) == 0 {
			metadata = sql.NullString{}
		}
	}

	var (
		old     store.Translation
		updated *model.Translation
	)
	err := s.withTx(ctx, "update translation", func(q *store.Queries) error {
		var err error
		old, err = q.GetTranslation(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "translation", ID: id}
		}
		if err != nil {
			return err
		}

		params := store.UpdateTranslationParams{
			ID:               id,
			ContentElementID: stringOr(in.ContentElementID, old.ContentElementID),
			LanguageID:       stringOr(in.LanguageID, old.LanguageID),
			Content:          stringOr(in.Content, old.Content),
			IsActive:         boolOr(in.IsActive, old.IsActive),
			Metadata:         old.Metadata,
			UpdatedAt:        time.Now().UTC(),
		}
		if in.Metadata != nil {
			params.Metadata = metadata
		}

		if params.ContentElementID != old.ContentElementID || params.LanguageID != old.LanguageID {
			if err := requireElement(ctx, q, params.ContentElementID); err != nil {
				return err
			}
			if err := requireLanguage(ctx, q, params.LanguageID); err != nil {
				return err
			}
			other, err := q.GetTranslationByPair(ctx, store.GetTranslationByPairParams{
				ContentElementID: params.ContentElementID,
				LanguageID:       params.LanguageID,
			})
			if err == nil && other.ID != id {
				return pairConflict(params.ContentElementID, params.LanguageID)
			}
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}

		row, err := q.UpdateTranslation(ctx, params)
		if err != nil {
			return err
		}
		updated, err = populateOne(ctx, q, row)
		return err
	})
	if err != nil {
		return nil, err
	}

	var deps cache.Dependencies
	deps.Add(old.ContentElementID, old.LanguageID, id)
	deps.Add(updated.ContentElementID, updated.LanguageID, "")
	s.invalidate(ctx, deps)

	s.logWrite("translation updated", model.EventCategoryTranslation, "id", id)
	return updated, nil
}

// Delete deactivates a translation, or removes it when hard is set.
func (s *TranslationService) Delete(ctx context.Context, id string, hard bool) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	var row store.Translation
	err := s.withTx(ctx, "delete translation", func(q *store.Queries) error {
		var err error
		row, err = q.GetTranslation(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "translation", ID: id}
		}
		if err != nil {
			return err
		}

		if hard {
			_, err = q.DeleteTranslation(ctx, id)
			return err
		}
		_, err = q.SetTranslationActive(ctx, store.SetTranslationActiveParams{
			ID:        id,
			IsActive:  false,
			UpdatedAt: time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		return err
	}

	var deps cache.Dependencies
	deps.Add(row.ContentElementID, row.LanguageID, id)
	s.invalidate(ctx, deps)

	s.logWrite("translation deleted", model.EventCategoryTranslation, "id", id, "hard", hard)
	return nil
}

func (s *TranslationService) cacheGet(ctx context.Context, key string) (*model.Translation, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

// cacheEpoch is read before a store load so that a fill racing a write's
// invalidation is dropped.
func (s *TranslationService) cacheEpoch() uint64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Epoch()
}

func (s *TranslationService) cacheSet(ctx context.Context, key string, t *model.Translation, epoch uint64) {
	if s.cache != nil {
		s.cache.SetSince(ctx, key, t, epoch)
	}
}

func (s *TranslationService) cacheGetList(ctx context.Context, key string) ([]model.Translation, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.GetList(ctx, key)
}

func (s *TranslationService) cacheSetList(ctx context.Context, key, ownerTag string, list []model.Translation, epoch uint64) {
	if s.cache != nil {
		s.cache.SetListSince(ctx, key, ownerTag, list, epoch)
	}
}

func requireElement(ctx context.Context, q *store.Queries, id string) error {
	_, err := q.GetContentElement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: "content element", ID: id}
	}
	return err
}

func requireLanguage(ctx context.Context, q *store.Queries, id string) error {
	_, err := q.GetLanguage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: "language", ID: id}
	}
	return err
}

func pairConflict(contentElementID, languageID string) error {
	return &ConflictError{Message: "translation already exists for content element " + contentElementID + " and language " + languageID}
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "must not be empty"}
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
)

// BulkItem is one translation to insert or update.
// With ID set the item updates that record; without it the item updates the
// translation of its pair, or inserts one.
type BulkItem struct {
	ID               string         `json:"id,omitempty" yaml:"id,omitempty"`
	Content          string         `json:"content" yaml:"content"`
	LanguageID       string         `json:"language" yaml:"language"`
	ContentElementID string         `json:"content_element" yaml:"content_element"`
	IsActive         *bool          `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ItemError describes why one bulk item was skipped. Index is 1-based.
type ItemError struct {
	Index            int    `json:"index"`
	ContentElementID string `json:"content_element"`
	LanguageID       string `json:"language"`
	Message          string `json:"message"`
}

// BulkResult summarizes a bulk upsert.
type BulkResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Errors  []ItemError `json:"errors"`
}

type pairKey struct {
	element  string
	language string
}

// bulkItem is a validated item with its position in the request.
type bulkItem struct {
	BulkItem
	index    int
	metadata sql.NullString
}

// bulkRun is the state of one bulk upsert transaction.
type bulkRun struct {
	q      *store.Queries
	now    time.Time
	result *BulkResult
	deps   cache.Dependencies
}

// BulkUpsert inserts or updates many translations in one transaction.
//
// Items that fail validation are reported in BulkResult.Errors and the rest
// are committed. When no item succeeds the transaction is rolled back and a
// ValidationError carrying the item errors is returned. Store failures abort
// the whole batch with a DatabaseError.
func (s *TranslationService) BulkUpsert(ctx context.Context, items []BulkItem) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "must not be empty"}
	}

	result := &BulkResult{Errors: []ItemError{}}
	valid := make([]bulkItem, 0, len(items))
	for i, item := range items {
		if msg := checkBulkItem(item); msg != "" {
			result.Errors = append(result.Errors, itemError(i+1, item, msg))
			continue
		}
		metadata, err := encodeMetadata(item.Metadata)
		if err != nil {
			result.Errors = append(result.Errors, itemError(i+1, item, err.Error()))
			continue
		}
		valid = append(valid, bulkItem{BulkItem: item, index: i + 1, metadata: metadata})
	}

	var run *bulkRun
	err := s.withTx(ctx, "bulk upsert translations", func(q *store.Queries) error {
		run = &bulkRun{q: q, now: time.Now().UTC(), result: &BulkResult{Errors: slices.Clone(result.Errors)}}

		for chunk := range slices.Chunk(valid, s.opts.BatchSize) {
			if err := run.upsertChunk(ctx, chunk); err != nil {
				return err
			}
		}

		slices.SortFunc(run.result.Errors, func(a, b ItemError) int { return a.Index - b.Index })
		if run.result.Created+run.result.Updated == 0 {
			return &ValidationError{Message: "no item could be applied", Items: run.result.Errors}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, run.deps)

	s.logWrite("translations bulk upserted", model.EventCategoryTranslation,
		"items", len(items), "created", run.result.Created, "updated", run.result.Updated, "errors", len(run.result.Errors))
	return run.result, nil
}

// upsertChunk resolves references for a chunk with three batch queries and
// then applies its items in request order.
func (r *bulkRun) upsertChunk(ctx context.Context, chunk []bulkItem) error {
	var elementIDs, languageIDs, translationIDs []string
	for _, it := range chunk {
		elementIDs = append(elementIDs, it.ContentElementID)
		languageIDs = append(languageIDs, it.LanguageID)
		if it.ID != "" {
			translationIDs = append(translationIDs, it.ID)
		}
	}
	elementIDs = distinct(elementIDs)
	languageIDs = distinct(languageIDs)

	elements, err := r.q.ListContentElementsByIDs(ctx, elementIDs)
	if err != nil {
		return err
	}
	elementSet := make(map[string]struct{}, len(elements))
	for _, e := range elements {
		elementSet[e.ID] = struct{}{}
	}

	languages, err := r.q.ListLanguagesByIDs(ctx, languageIDs)
	if err != nil {
		return err
	}
	languageSet := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		languageSet[l.ID] = struct{}{}
	}

	existing, err := r.q.ListTranslationsByContentElements(ctx, elementIDs)
	if err != nil {
		return err
	}
	if len(translationIDs) > 0 {
		byID, err := r.q.ListTranslationsByIDs(ctx, distinct(translationIDs))
		if err != nil {
			return err
		}
		existing = append(existing, byID...)
	}

	byPair := make(map[pairKey]store.Translation, len(existing))
	byID := make(map[string]store.Translation, len(existing))
	for _, t := range existing {
		byPair[pairKey{t.ContentElementID, t.LanguageID}] = t
		byID[t.ID] = t
	}

	for _, it := range chunk {
		if _, ok := elementSet[it.ContentElementID]; !ok {
			r.fail(it, fmt.Sprintf("content element %s not found", it.ContentElementID))
			continue
		}
		if _, ok := languageSet[it.LanguageID]; !ok {
			r.fail(it, fmt.Sprintf("language %s not found", it.LanguageID))
			continue
		}

		key := pairKey{it.ContentElementID, it.LanguageID}
		var target store.Translation
		var found bool

		if it.ID != "" {
			target, found = byID[it.ID]
			if !found {
				r.fail(it, fmt.Sprintf("translation %s not found", it.ID))
				continue
			}
			if other, ok := byPair[key]; ok && other.ID != it.ID {
				r.fail(it, fmt.Sprintf("translation %s already uses this content element and language", other.ID))
				continue
			}
		} else {
			target, found = byPair[key]
		}

		if found {
			row, err := r.q.UpdateTranslation(ctx, store.UpdateTranslationParams{
				ID:               target.ID,
				ContentElementID: it.ContentElementID,
				LanguageID:       it.LanguageID,
				Content:          it.Content,
				IsActive:         boolOr(it.IsActive, target.IsActive),
				Metadata:         metadataOr(it, target.Metadata),
				UpdatedAt:        r.now,
			})
			if err != nil {
				return err
			}
			delete(byPair, pairKey{target.ContentElementID, target.LanguageID})
			byPair[key] = row
			byID[row.ID] = row
			r.result.Updated++
			r.deps.Add(target.ContentElementID, target.LanguageID, target.ID)
			r.deps.Add(row.ContentElementID, row.LanguageID, "")
			continue
		}

		row, err := r.q.CreateTranslation(ctx, store.CreateTranslationParams{
			ID:               uuid.NewString(),
			ContentElementID: it.ContentElementID,
			LanguageID:       it.LanguageID,
			Content:          it.Content,
			IsActive:         boolOr(it.IsActive, true),
			Metadata:         it.metadata,
			CreatedAt:        r.now,
			UpdatedAt:        r.now,
		})
		if err != nil {
			return err
		}
		byPair[key] = row
		byID[row.ID] = row
		r.result.Created++
		r.deps.Add(row.ContentElementID, row.LanguageID, row.ID)
	}
	return nil
}

func (r *bulkRun) fail(it bulkItem, msg string) {
	r.result.Errors = append(r.result.Errors, itemError(it.index, it.BulkItem, msg))
}

func checkBulkItem(item BulkItem) string {
	if err := validateContent(item.Content); err != nil {
		return err.Error()
	}
	if err := validateIDs("content_element", item.ContentElementID, "language", item.LanguageID); err != nil {
		return err.Error()
	}
	if item.ID != "" {
		if err := validateID("id", item.ID); err != nil {
			return err.Error()
		}
	}
	return ""
}

func metadataOr(it bulkItem, current sql.NullString) sql.NullString {
	if it.Metadata == nil {
		return current
	}
	return it.metadata
}

func itemError(index int, item BulkItem, msg string) ItemError {
	return ItemError{
		Index:            index,
		ContentElementID: item.ContentElementID,
		LanguageID:       item.LanguageID,
		Message:          msg,
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
)

// CreateContentElementInput holds the fields of a new content element.
type CreateContentElementInput struct {
	ParentID string // owning sub-section
	Name     string
	Type     string
	Order    int
	IsActive *bool // nil means true
	Media    model.ElementMedia
}

// UpdateContentElementInput is a partial update. The type of an element is fixed.
type UpdateContentElementInput struct {
	Name     *string
	Order    *int
	IsActive *bool
	Media    *model.ElementMedia
}

// ContentElementService manages content elements.
type ContentElementService struct {
	base
}

// NewContentElementService creates a ContentElementService. tc may be nil.
func NewContentElementService(db *sql.DB, tc *cache.TranslationCache, opts Options) *ContentElementService {
	return &ContentElementService{base: newBase(db, tc, opts)}
}

// Create adds a content element under a sub-section.
func (s *ContentElementService) Create(ctx context.Context, in CreateContentElementInput) (*model.ContentElement, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateID("parent", in.ParentID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !model.IsValidElementType(in.Type) {
		return nil, &ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", in.Type)}
	}
	if err := in.Media.CheckMedia(in.Type); err != nil {
		return nil, &ValidationError{Field: "media", Message: err.Error()}
	}

	now := time.Now().UTC()
	row, err := s.queries.CreateContentElement(ctx, store.CreateContentElementParams{
		ID:        uuid.NewString(),
		ParentID:  in.ParentID,
		Name:      in.Name,
		Type:      in.Type,
		Position:  int64(in.Order),
		IsActive:  boolOr(in.IsActive, true),
		ImageUrl:  nullString(in.Media.ImageURL),
		VideoUrl:  nullString(in.Media.VideoURL),
		FileUrl:   nullString(in.Media.FileURL),
		LinkUrl:   nullString(in.Media.LinkURL),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, classify("create content element", err)
	}

	el := elementFromRow(row)
	s.logWrite("content element created", model.EventCategoryElement, "id", el.ID, "type", el.Type)
	return &el, nil
}

// Get returns a content element by ID.
func (s *ContentElementService) Get(ctx context.Context, id string) (*model.ContentElement, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	row, err := s.queries.GetContentElement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "content element", ID: id}
	}
	if err != nil {
		return nil, classify("get content element", err)
	}
	el := elementFromRow(row)
	return &el, nil
}

// List returns the content elements of a sub-section ordered by Order.
func (s *ContentElementService) List(ctx context.Context, parentID string, activeOnly bool) ([]model.ContentElement, error) {
	if err := validateID("parent", parentID); err != nil {
		return nil, err
	}
	rows, err := s.queries.ListContentElements(ctx, store.ListContentElementsParams{ParentID: parentID, ActiveOnly: activeOnly})
	if err != nil {
		return nil, classify("list content elements", err)
	}
	return elementsFromRows(rows), nil
}

// Exists reports whether a content element exists.
func (s *ContentElementService) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateID("id", id); err != nil {
		return false, err
	}
	_, err := s.queries.GetContentElement(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify("find content element", err)
	}
	return true, nil
}

// Find returns the content elements among ids that exist, in no particular order.
func (s *ContentElementService) Find(ctx context.Context, ids []string) ([]model.ContentElement, error) {
	for _, id := range ids {
		if err := validateID("ids", id); err != nil {
			return nil, err
		}
	}
	rows, err := s.queries.ListContentElementsByIDs(ctx, distinct(ids))
	if err != nil {
		return nil, classify("find content elements", err)
	}
	return elementsFromRows(rows), nil
}

// Update changes the mutable fields of a content element.
func (s *ContentElementService) Update(ctx context.Context, id string, in UpdateContentElementInput) (*model.ContentElement, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Order == nil && in.IsActive == nil && in.Media == nil {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}

	var updated model.ContentElement
	err := s.withTx(ctx, "update content element", func(q *store.Queries) error {
		row, err := q.GetContentElement(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "content element", ID: id}
		}
		if err != nil {
			return err
		}

		params := store.UpdateContentElementParams{
			ID:        id,
			Name:      row.Name,
			Position:  row.Position,
			IsActive:  boolOr(in.IsActive, row.IsActive),
			ImageUrl:  row.ImageUrl,
			VideoUrl:  row.VideoUrl,
			FileUrl:   row.FileUrl,
			LinkUrl:   row.LinkUrl,
			UpdatedAt: time.Now().UTC(),
		}
		if in.Name != nil {
			params.Name = strings.TrimSpace(*in.Name)
		}
		if in.Order != nil {
			params.Position = int64(*in.Order)
		}
		if in.Media != nil {
			if err := in.Media.CheckMedia(row.Type); err != nil {
				return &ValidationError{Field: "media", Message: err.Error()}
			}
			params.ImageUrl = nullString(in.Media.ImageURL)
			params.VideoUrl = nullString(in.Media.VideoURL)
			params.FileUrl = nullString(in.Media.FileURL)
			params.LinkUrl = nullString(in.Media.LinkURL)
		}

		row, err = q.UpdateContentElement(ctx, params)
		if err != nil {
			return err
		}
		updated = elementFromRow(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cached translations embed the element, and by-language lists sort on its order.
	s.invalidate(ctx, cache.Dependencies{ContentElementIDs: []string{id}})

	s.logWrite("content element updated", model.EventCategoryElement, "id", id)
	return &updated, nil
}

// Delete deactivates a content element, or removes it when hard is set.
// A hard delete is refused while translations reference the element.
func (s *ContentElementService) Delete(ctx context.Context, id string, hard bool) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	err := s.withTx(ctx, "delete content element", func(q *store.Queries) error {
		row, err := q.GetContentElement(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "content element", ID: id}
		}
		if err != nil {
			return err
		}

		if !hard {
			_, err = q.UpdateContentElement(ctx, store.UpdateContentElementParams{
				ID:        id,
				Name:      row.Name,
				Position:  row.Position,
				IsActive:  false,
				ImageUrl:  row.ImageUrl,
				VideoUrl:  row.VideoUrl,
				FileUrl:   row.FileUrl,
				LinkUrl:   row.LinkUrl,
				UpdatedAt: time.Now().UTC(),
			})
			return err
		}

		count, err := q.CountTranslationsByContentElement(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Message: fmt.Sprintf("content element %s still has %d translations", id, count)}
		}
		_, err = q.DeleteContentElement(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, cache.Dependencies{ContentElementIDs: []string{id}})

	s.logWrite("content element deleted", model.EventCategoryElement, "id", id, "hard", hard)
	return nil
}

func elementsFromRows(rows []store.ContentElement) []model.ContentElement {
	out := make([]model.ContentElement, 0, len(rows))
	for _, r := range rows {
		out = append(out, elementFromRow(r))
	}
	return out
}

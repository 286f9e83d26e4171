// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
	"github.com/olegiv/wcms-go/internal/util"
)

// WebsiteService manages websites.
type WebsiteService struct {
	base
}

// NewWebsiteService creates a WebsiteService.
func NewWebsiteService(db *sql.DB, opts Options) *WebsiteService {
	return &WebsiteService{base: newBase(db, nil, opts)}
}

// Create adds a website. An empty slug is derived from the name and made
// unique with a numeric suffix; an explicit slug that is taken is a conflict.
func (s *WebsiteService) Create(ctx context.Context, name, slug string) (*model.Website, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	derived := slug == ""
	if derived {
		slug = util.Slugify(name)
	}
	if !util.IsValidSlug(slug) {
		return nil, &ValidationError{Field: "slug", Message: "must contain only lowercase letters, digits and single hyphens"}
	}

	var created model.Website
	err := s.withTx(ctx, "create website", func(q *store.Queries) error {
		taken := func(candidate string) (bool, error) {
			_, err := q.GetWebsiteBySlug(ctx, candidate)
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return err == nil, err
		}

		if derived {
			unique, err := util.UniqueSlug(slug, taken)
			if err != nil {
				return err
			}
			slug = unique
		} else if used, err := taken(slug); err != nil {
			return err
		} else if used {
			return &ConflictError{Message: "website slug " + slug + " already taken"}
		}

		now := time.Now().UTC()
		row, err := q.CreateWebsite(ctx, store.CreateWebsiteParams{
			ID:        uuid.NewString(),
			Name:      name,
			Slug:      slug,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		created = websiteFromRow(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logWrite("website created", model.EventCategorySystem, "id", created.ID, "slug", created.Slug)
	return &created, nil
}

// Get returns a website by ID.
func (s *WebsiteService) Get(ctx context.Context, id string) (*model.Website, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	row, err := s.queries.GetWebsite(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "website", ID: id}
	}
	if err != nil {
		return nil, classify("get website", err)
	}
	w := websiteFromRow(row)
	return &w, nil
}

// GetBySlug returns a website by slug.
func (s *WebsiteService) GetBySlug(ctx context.Context, slug string) (*model.Website, error) {
	row, err := s.queries.GetWebsiteBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "website", ID: slug}
	}
	if err != nil {
		return nil, classify("get website", err)
	}
	w := websiteFromRow(row)
	return &w, nil
}

// List returns all websites.
func (s *WebsiteService) List(ctx context.Context) ([]model.Website, error) {
	rows, err := s.queries.ListWebsites(ctx)
	if err != nil {
		return nil, classify("list websites", err)
	}
	out := make([]model.Website, 0, len(rows))
	for _, r := range rows {
		out = append(out, websiteFromRow(r))
	}
	return out, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const websiteColumns = `id, name, slug, is_active, created_at, updated_at`

func scanWebsite(row rowScanner) (Website, error) {
	var i Website
	err := row.Scan(&i.ID, &i.Name, &i.Slug, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

type CreateWebsiteParams struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const createWebsite = `
INSERT INTO websites (id, name, slug, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + websiteColumns

func (q *Queries) CreateWebsite(ctx context.Context, arg CreateWebsiteParams) (Website, error) {
	row := q.db.QueryRowContext(ctx, createWebsite,
		arg.ID, arg.Name, arg.Slug, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanWebsite(row)
}

const getWebsite = `SELECT ` + websiteColumns + ` FROM websites WHERE id = ?`

func (q *Queries) GetWebsite(ctx context.Context, id string) (Website, error) {
	return scanWebsite(q.db.QueryRowContext(ctx, getWebsite, id))
}

const getWebsiteBySlug = `SELECT ` + websiteColumns + ` FROM websites WHERE slug = ?`

func (q *Queries) GetWebsiteBySlug(ctx context.Context, slug string) (Website, error) {
	return scanWebsite(q.db.QueryRowContext(ctx, getWebsiteBySlug, slug))
}

const listWebsites = `SELECT ` + websiteColumns + ` FROM websites ORDER BY name`

func (q *Queries) ListWebsites(ctx context.Context) ([]Website, error) {
	rows, err := q.db.QueryContext(ctx, listWebsites)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Website
	for rows.Next() {
		i, err := scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

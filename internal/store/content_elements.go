// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var contentElementColumns = []string{
	"id", "parent_id", "name", "type", "position", "is_active",
	"image_url", "video_url", "file_url", "link_url", "created_at", "updated_at",
}

const contentElementColumnList = `id, parent_id, name, type, position, is_active, image_url, video_url, file_url, link_url, created_at, updated_at`

func scanContentElement(row rowScanner) (ContentElement, error) {
	var i ContentElement
	err := row.Scan(
		&i.ID, &i.ParentID, &i.Name, &i.Type, &i.Position, &i.IsActive,
		&i.ImageUrl, &i.VideoUrl, &i.FileUrl, &i.LinkUrl, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func collectContentElements(rows *sql.Rows) ([]ContentElement, error) {
	defer func() { _ = rows.Close() }()

	var items []ContentElement
	for rows.Next() {
		i, err := scanContentElement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateContentElementParams struct {
	ID        string
	ParentID  string
	Name      string
	Type      string
	Position  int64
	IsActive  bool
	ImageUrl  sql.NullString
	VideoUrl  sql.NullString
	FileUrl   sql.NullString
	LinkUrl   sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

const createContentElement = `
INSERT INTO content_elements (id, parent_id, name, type, position, is_active, image_url, video_url, file_url, link_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + contentElementColumnList

func (q *Queries) CreateContentElement(ctx context.Context, arg CreateContentElementParams) (ContentElement, error) {
	row := q.db.QueryRowContext(ctx, createContentElement,
		arg.ID, arg.ParentID, arg.Name, arg.Type, arg.Position, arg.IsActive,
		arg.ImageUrl, arg.VideoUrl, arg.FileUrl, arg.LinkUrl, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanContentElement(row)
}

const getContentElement = `SELECT ` + contentElementColumnList + ` FROM content_elements WHERE id = ?`

func (q *Queries) GetContentElement(ctx context.Context, id string) (ContentElement, error) {
	return scanContentElement(q.db.QueryRowContext(ctx, getContentElement, id))
}

type ListContentElementsParams struct {
	ParentID   string
	ActiveOnly bool
}

// ListContentElements returns a sub-section's elements ordered by position.
func (q *Queries) ListContentElements(ctx context.Context, arg ListContentElementsParams) ([]ContentElement, error) {
	b := sq.Select(contentElementColumns...).From("content_elements").
		Where(sq.Eq{"parent_id": arg.ParentID}).
		OrderBy("position", "name")
	if arg.ActiveOnly {
		b = b.Where(sq.Eq{"is_active": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectContentElements(rows)
}

// ListContentElementsByIDs returns the elements among ids that exist, in no particular order.
func (q *Queries) ListContentElementsByIDs(ctx context.Context, ids []string) ([]ContentElement, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(contentElementColumns...).From("content_elements").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectContentElements(rows)
}

type UpdateContentElementParams struct {
	ID        string
	Name      string
	Position  int64
	IsActive  bool
	ImageUrl  sql.NullString
	VideoUrl  sql.NullString
	FileUrl   sql.NullString
	LinkUrl   sql.NullString
	UpdatedAt time.Time
}

const updateContentElement = `
UPDATE content_elements
SET name = ?, position = ?, is_active = ?, image_url = ?, video_url = ?, file_url = ?, link_url = ?, updated_at = ?
WHERE id = ?
RETURNING ` + contentElementColumnList

func (q *Queries) UpdateContentElement(ctx context.Context, arg UpdateContentElementParams) (ContentElement, error) {
	row := q.db.QueryRowContext(ctx, updateContentElement,
		arg.Name, arg.Position, arg.IsActive, arg.ImageUrl, arg.VideoUrl, arg.FileUrl, arg.LinkUrl, arg.UpdatedAt, arg.ID,
	)
	return scanContentElement(row)
}

const deleteContentElement = `DELETE FROM content_elements WHERE id = ?`

func (q *Queries) DeleteContentElement(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContentElement, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var translationColumns = []string{
	"id", "content_element_id", "language_id", "content", "is_active", "metadata", "created_at", "updated_at",
}

const translationColumnList = `id, content_element_id, language_id, content, is_active, metadata, created_at, updated_at`

func scanTranslation(row rowScanner) (Translation, error) {
	var i Translation
	err := row.Scan(
		&i.ID, &i.ContentElementID, &i.LanguageID, &i.Content, &i.IsActive, &i.Metadata, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

func collectTranslations(rows *sql.Rows) ([]Translation, error) {
	defer func() { _ = rows.Close() }()

	var items []Translation
	for rows.Next() {
		i, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateTranslationParams struct {
	ID               string
	ContentElementID string
	LanguageID       string
	Content          string
	IsActive         bool
	Metadata         sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const createTranslation = `
INSERT INTO translations (id, content_element_id, language_id, content, is_active, metadata, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + translationColumnList

func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (Translation, error) {
	row := q.db.QueryRowContext(ctx, createTranslation,
		arg.ID, arg.ContentElementID, arg.LanguageID, arg.Content, arg.IsActive, arg.Metadata, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanTranslation(row)
}

const getTranslation = `SELECT ` + translationColumnList + ` FROM translations WHERE id = ?`

func (q *Queries) GetTranslation(ctx context.Context, id string) (Translation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx, getTranslation, id))
}

type GetTranslationByPairParams struct {
	ContentElementID string
	LanguageID       string
}

const getTranslationByPair = `SELECT ` + translationColumnList + ` FROM translations WHERE content_element_id = ? AND language_id = ?`

func (q *Queries) GetTranslationByPair(ctx context.Context, arg GetTranslationByPairParams) (Translation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx, getTranslationByPair, arg.ContentElementID, arg.LanguageID))
}

// ListTranslationsParams filters ListTranslations. Empty IDs are ignored.
type ListTranslationsParams struct {
	ContentElementID string
	LanguageID       string
	ActiveOnly       bool
}

// ListTranslations returns translations matching the filter, oldest first.
// Callers order by the related entities after joining them.
func (q *Queries) ListTranslations(ctx context.Context, arg ListTranslationsParams) ([]Translation, error) {
	b := sq.Select(translationColumns...).From("translations").OrderBy("created_at", "id")
	if arg.ContentElementID != "" {
		b = b.Where(sq.Eq{"content_element_id": arg.ContentElementID})
	}
	if arg.LanguageID != "" {
		b = b.Where(sq.Eq{"language_id": arg.LanguageID})
	}
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
	return collectTranslations(rows)
}

// ListTranslationsByContentElements returns every translation of the given elements.
func (q *Queries) ListTranslationsByContentElements(ctx context.Context, contentElementIDs []string) ([]Translation, error) {
	if len(contentElementIDs) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(translationColumns...).From("translations").
		Where(sq.Eq{"content_element_id": contentElementIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTranslations(rows)
}

// ListTranslationsByIDs returns the translations among ids that exist.
func (q *Queries) ListTranslationsByIDs(ctx context.Context, ids []string) ([]Translation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(translationColumns...).From("translations").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectTranslations(rows)
}

const countTranslationsByContentElement = `SELECT COUNT(*) FROM translations WHERE content_element_id = ?`

func (q *Queries) CountTranslationsByContentElement(ctx context.Context, contentElementID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countTranslationsByContentElement, contentElementID).Scan(&count)
	return count, err
}

type UpdateTranslationParams struct {
	ID               string
	ContentElementID string
	LanguageID       string
	Content          string
	IsActive         bool
	Metadata         sql.NullString
	UpdatedAt        time.Time
}

const updateTranslation = `
UPDATE translations
SET content_element_id = ?, language_id = ?, content = ?, is_active = ?, metadata = ?, updated_at = ?
WHERE id = ?
RETURNING ` + translationColumnList

func (q *Queries) UpdateTranslation(ctx context.Context, arg UpdateTranslationParams) (Translation, error) {
	row := q.db.QueryRowContext(ctx, updateTranslation,
		arg.ContentElementID, arg.LanguageID, arg.Content, arg.IsActive, arg.Metadata, arg.UpdatedAt, arg.ID,
	)
	return scanTranslation(row)
}

type SetTranslationActiveParams struct {
	ID        string
	IsActive  bool
	UpdatedAt time.Time
}

const setTranslationActive = `
UPDATE translations SET is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + translationColumnList

func (q *Queries) SetTranslationActive(ctx context.Context, arg SetTranslationActiveParams) (Translation, error) {
	return scanTranslation(q.db.QueryRowContext(ctx, setTranslationActive, arg.IsActive, arg.UpdatedAt, arg.ID))
}

const deleteTranslation = `DELETE FROM translations WHERE id = ?`

func (q *Queries) DeleteTranslation(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTranslation, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

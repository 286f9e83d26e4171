// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var languageColumns = []string{"id", "website_id", "name", "code", "is_active", "created_at", "updated_at"}

const languageColumnList = `id, website_id, name, code, is_active, created_at, updated_at`

func scanLanguage(row rowScanner) (Language, error) {
	var i Language
	err := row.Scan(&i.ID, &i.WebsiteID, &i.Name, &i.Code, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

func collectLanguages(rows *sql.Rows) ([]Language, error) {
	defer func() { _ = rows.Close() }()

	var items []Language
	for rows.Next() {
		i, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateLanguageParams struct {
	ID        string
	WebsiteID string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const createLanguage = `
INSERT INTO languages (id, website_id, name, code, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + languageColumnList

func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx, createLanguage,
		arg.ID, arg.WebsiteID, arg.Name, arg.Code, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanLanguage(row)
}

const getLanguage = `SELECT ` + languageColumnList + ` FROM languages WHERE id = ?`

func (q *Queries) GetLanguage(ctx context.Context, id string) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getLanguage, id))
}

type GetLanguageByCodeParams struct {
	WebsiteID string
	Code      string
}

const getLanguageByCode = `SELECT ` + languageColumnList + ` FROM languages WHERE website_id = ? AND code = ?`

func (q *Queries) GetLanguageByCode(ctx context.Context, arg GetLanguageByCodeParams) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getLanguageByCode, arg.WebsiteID, arg.Code))
}

type GetLanguageByNameParams struct {
	WebsiteID string
	Name      string
}

const getLanguageByName = `SELECT ` + languageColumnList + ` FROM languages WHERE website_id = ? AND name = ?`

func (q *Queries) GetLanguageByName(ctx context.Context, arg GetLanguageByNameParams) (Language, error) {
	return scanLanguage(q.db.QueryRowContext(ctx, getLanguageByName, arg.WebsiteID, arg.Name))
}

type ListLanguagesParams struct {
	WebsiteID  string
	ActiveOnly bool
}

// ListLanguages returns a website's languages ordered by display name.
func (q *Queries) ListLanguages(ctx context.Context, arg ListLanguagesParams) ([]Language, error) {
	b := sq.Select(languageColumns...).From("languages").
		Where(sq.Eq{"website_id": arg.WebsiteID}).
		OrderBy("name")
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
	return collectLanguages(rows)
}

// ListLanguagesByIDs returns the languages among ids that exist, in no particular order.
func (q *Queries) ListLanguagesByIDs(ctx context.Context, ids []string) ([]Language, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select(languageColumns...).From("languages").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectLanguages(rows)
}

type UpdateLanguageParams struct {
	ID        string
	Name      string
	Code      string
	IsActive  bool
	UpdatedAt time.Time
}

const updateLanguage = `
UPDATE languages SET name = ?, code = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + languageColumnList

func (q *Queries) UpdateLanguage(ctx context.Context, arg UpdateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx, updateLanguage, arg.Name, arg.Code, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanLanguage(row)
}

type AddLanguageSubSectionParams struct {
	LanguageID   string
	SubSectionID string
	CreatedAt    time.Time
}

const addLanguageSubSection = `
INSERT INTO language_sub_sections (language_id, sub_section_id, created_at)
VALUES (?, ?, ?)
ON CONFLICT (language_id, sub_section_id) DO NOTHING`

func (q *Queries) AddLanguageSubSection(ctx context.Context, arg AddLanguageSubSectionParams) error {
	_, err := q.db.ExecContext(ctx, addLanguageSubSection, arg.LanguageID, arg.SubSectionID, arg.CreatedAt)
	return err
}

type RemoveLanguageSubSectionParams struct {
	LanguageID   string
	SubSectionID string
}

const removeLanguageSubSection = `DELETE FROM language_sub_sections WHERE language_id = ? AND sub_section_id = ?`

func (q *Queries) RemoveLanguageSubSection(ctx context.Context, arg RemoveLanguageSubSectionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, removeLanguageSubSection, arg.LanguageID, arg.SubSectionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListLanguageSubSections returns the sub-section links of the given languages.
func (q *Queries) ListLanguageSubSections(ctx context.Context, languageIDs []string) ([]LanguageSubSection, error) {
	if len(languageIDs) == 0 {
		return nil, nil
	}

	query, args, err := sq.Select("language_id", "sub_section_id", "created_at").
		From("language_sub_sections").
		Where(sq.Eq{"language_id": languageIDs}).
		OrderBy("created_at", "sub_section_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []LanguageSubSection
	for rows.Next() {
		var i LanguageSubSection
		if err := rows.Scan(&i.LanguageID, &i.SubSectionID, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
)

func websiteFromRow(r store.Website) model.Website {
	return model.Website{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func languageFromRow(r store.Language, subSections []string) model.Language {
	if subSections == nil {
		subSections = []string{}
	}
	return model.Language{
		ID:          r.ID,
		WebsiteID:   r.WebsiteID,
		Name:        r.Name,
		Code:        r.Code,
		IsActive:    r.IsActive,
		SubSections: subSections,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func elementFromRow(r store.ContentElement) model.ContentElement {
	return model.ContentElement{
		ID:        r.ID,
		ParentID:  r.ParentID,
		Name:      r.Name,
		Type:      r.Type,
		Order:     int(r.Position),
		IsActive:  r.IsActive,
		ImageURL:  r.ImageUrl.String,
		VideoURL:  r.VideoUrl.String,
		FileURL:   r.FileUrl.String,
		LinkURL:   r.LinkUrl.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func translationFromRow(r store.Translation) (model.Translation, error) {
	t := model.Translation{
		ID:               r.ID,
		Content:          r.Content,
		LanguageID:       r.LanguageID,
		ContentElementID: r.ContentElementID,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Metadata.Valid && r.Metadata.String != "" {
		if err := json.Unmarshal([]byte(r.Metadata.String), &t.Metadata); err != nil {
			return t, fmt.Errorf("decoding metadata of translation %s: %w", r.ID, err)
		}
	}
	return t, nil
}

func encodeMetadata(m map[string]any) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, &ValidationError{Field: "metadata", Message: err.Error()}
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// subSectionsByLanguage loads the sub-section links of the given languages.
func subSectionsByLanguage(ctx context.Context, q *store.Queries, languageIDs []string) (map[string][]string, error) {
	links, err := q.ListLanguageSubSections(ctx, languageIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(languageIDs))
	for _, l := range links {
		out[l.LanguageID] = append(out[l.LanguageID], l.SubSectionID)
	}
	return out, nil
}

// populate expands the language and content element references of rows
// with one batch query per referenced table.
func populate(ctx context.Context, q *store.Queries, rows []store.Translation) ([]model.Translation, error) {
	if len(rows) == 0 {
		return []model.Translation{}, nil
	}

	elementIDs := make([]string, 0, len(rows))
	languageIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		elementIDs = append(elementIDs, r.ContentElementID)
		languageIDs = append(languageIDs, r.LanguageID)
	}
	elementIDs = distinct(elementIDs)
	languageIDs = distinct(languageIDs)

	elementRows, err := q.ListContentElementsByIDs(ctx, elementIDs)
	if err != nil {
		return nil, err
	}
	elements := make(map[string]model.ContentElement, len(elementRows))
	for _, r := range elementRows {
		elements[r.ID] = elementFromRow(r)
	}

	languageRows, err := q.ListLanguagesByIDs(ctx, languageIDs)
	if err != nil {
		return nil, err
	}
	subSections, err := subSectionsByLanguage(ctx, q, languageIDs)
	if err != nil {
		return nil, err
	}
	languages := make(map[string]model.Language, len(languageRows))
	for _, r := range languageRows {
		languages[r.ID] = languageFromRow(r, subSections[r.ID])
	}

	out := make([]model.Translation, 0, len(rows))
	for _, r := range rows {
		t, err := translationFromRow(r)
		if err != nil {
			return nil, err
		}
		if el, ok := elements[r.ContentElementID]; ok {
			t.ContentElement = &el
		}
		if lang, ok := languages[r.LanguageID]; ok {
			t.Language = &lang
		}
		out = append(out, t)
	}
	return out, nil
}

func populateOne(ctx context.Context, q *store.Queries, row store.Translation) (*model.Translation, error) {
	list, err := populate(ctx, q, []store.Translation{row})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// sortByLanguageName orders a content element's translations by language display name.
func sortByLanguageName(list []model.Translation) {
	slices.SortStableFunc(list, func(a, b model.Translation) int {
		if c := strings.Compare(languageName(a), languageName(b)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// sortByElementOrder orders a language's translations by content element order.
func sortByElementOrder(list []model.Translation) {
	slices.SortStableFunc(list, func(a, b model.Translation) int {
		if c := elementOrder(a) - elementOrder(b); c != 0 {
			return c
		}
		if c := strings.Compare(elementName(a), elementName(b)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func languageName(t model.Translation) string {
	if t.Language == nil {
		return ""
	}
	return t.Language.Name
}

func elementOrder(t model.Translation) int {
	if t.ContentElement == nil {
		return 0
	}
	return t.ContentElement.Order
}

func elementName(t model.Translation) string {
	if t.ContentElement == nil {
		return ""
	}
	return t.ContentElement.Name
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

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

	"github.com/olegiv/wcms-go/internal/cache"
	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
)

// CreateLanguageInput holds the fields of a new language.
type CreateLanguageInput struct {
	WebsiteID   string
	Name        string // display name, e.g. "Deutsch"
	Code        string // e.g. "de", "pt-BR"
	IsActive    *bool  // nil means true
	SubSections []string
}

// UpdateLanguageInput is a partial update. Nil fields are left unchanged.
type UpdateLanguageInput struct {
	Name     *string
	Code     *string
	IsActive *bool
}

// LanguageService manages the languages of a website.
type LanguageService struct {
	base
}

// NewLanguageService creates a LanguageService. tc may be nil.
func NewLanguageService(db *sql.DB, tc *cache.TranslationCache, opts Options) *LanguageService {
	return &LanguageService{base: newBase(db, tc, opts)}
}

// Create adds a language to a website.
func (s *LanguageService) Create(ctx context.Context, in CreateLanguageInput) (*model.Language, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateID("website", in.WebsiteID); err != nil {
		return nil, err
	}
	if err := validateLanguageFields(in.Name, in.Code); err != nil {
		return nil, err
	}
	for _, sub := range in.SubSections {
		if err := validateID("sub_sections", sub); err != nil {
			return nil, err
		}
	}

	var created *model.Language
	err := s.withTx(ctx, "create language", func(q *store.Queries) error {
		if _, err := q.GetWebsite(ctx, in.WebsiteID); errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "website", ID: in.WebsiteID}
		} else if err != nil {
			return err
		}
		if err := checkLanguageUnique(ctx, q, in.WebsiteID, "", in.Name, in.Code); err != nil {
			return err
		}

		now := time.Now().UTC()
		row, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
			ID:        uuid.NewString(),
			WebsiteID: in.WebsiteID,
			Name:      in.Name,
			Code:      in.Code,
			IsActive:  boolOr(in.IsActive, true),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		for _, sub := range distinct(in.SubSections) {
			if err := q.AddLanguageSubSection(ctx, store.AddLanguageSubSectionParams{
				LanguageID:   row.ID,
				SubSectionID: sub,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}
		created, err = loadLanguage(ctx, q, row.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logWrite("language created", model.EventCategoryLanguage, "id", created.ID, "code", created.Code)
	return created, nil
}

// Get returns a language with its sub-sections.
func (s *LanguageService) Get(ctx context.Context, id string) (*model.Language, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	lang, err := loadLanguage(ctx, s.queries, id)
	if err != nil {
		return nil, classify("get language", err)
	}
	return lang, nil
}

// List returns the languages of a website ordered by display name.
func (s *LanguageService) List(ctx context.Context, websiteID string, activeOnly bool) ([]model.Language, error) {
	if err := validateID("website", websiteID); err != nil {
		return nil, err
	}
	rows, err := s.queries.ListLanguages(ctx, store.ListLanguagesParams{WebsiteID: websiteID, ActiveOnly: activeOnly})
	if err != nil {
		return nil, classify("list languages", err)
	}
	return s.withSubSections(ctx, rows, "list languages")
}

// Exists reports whether a language exists.
func (s *LanguageService) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateID("id", id); err != nil {
		return false, err
	}
	_, err := s.queries.GetLanguage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify("find language", err)
	}
	return true, nil
}

// Find returns the languages among ids that exist, in no particular order.
func (s *LanguageService) Find(ctx context.Context, ids []string) ([]model.Language, error) {
	for _, id := range ids {
		if err := validateID("ids", id); err != nil {
			return nil, err
		}
	}
	rows, err := s.queries.ListLanguagesByIDs(ctx, distinct(ids))
	if err != nil {
		return nil, classify("find languages", err)
	}
	return s.withSubSections(ctx, rows, "find languages")
}

// Update changes the name, code or active flag of a language.
func (s *LanguageService) Update(ctx context.Context, id string, in UpdateLanguageInput) (*model.Language, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Code == nil && in.IsActive == nil {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}

	var updated *model.Language
	err := s.withTx(ctx, "update language", func(q *store.Queries) error {
		row, err := q.GetLanguage(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "language", ID: id}
		}
		if err != nil {
			return err
		}

		name := stringOr(in.Name, row.Name)
		code := stringOr(in.Code, row.Code)
		if err := validateLanguageFields(name, code); err != nil {
			return err
		}
		if err := checkLanguageUnique(ctx, q, row.WebsiteID, id, name, code); err != nil {
			return err
		}

		if _, err := q.UpdateLanguage(ctx, store.UpdateLanguageParams{
			ID:        id,
			Name:      name,
			Code:      code,
			IsActive:  boolOr(in.IsActive, row.IsActive),
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		updated, err = loadLanguage(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Cached translations embed the language.
	s.invalidate(ctx, cache.Dependencies{LanguageIDs: []string{id}})

	s.logWrite("language updated", model.EventCategoryLanguage, "id", id)
	return updated, nil
}

// AttachSubSection links a sub-section to a language. Linking twice is a no-op.
func (s *LanguageService) AttachSubSection(ctx context.Context, languageID, subSectionID string) error {
	if err := validateIDs("language", languageID, "sub_section", subSectionID); err != nil {
		return err
	}
	err := s.withTx(ctx, "attach sub-section", func(q *store.Queries) error {
		if err := requireLanguage(ctx, q, languageID); err != nil {
			return err
		}
		return q.AddLanguageSubSection(ctx, store.AddLanguageSubSectionParams{
			LanguageID:   languageID,
			SubSectionID: subSectionID,
			CreatedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, cache.Dependencies{LanguageIDs: []string{languageID}})
	return nil
}

// DetachSubSection removes a sub-section link.
func (s *LanguageService) DetachSubSection(ctx context.Context, languageID, subSectionID string) error {
	if err := validateIDs("language", languageID, "sub_section", subSectionID); err != nil {
		return err
	}
	err := s.withTx(ctx, "detach sub-section", func(q *store.Queries) error {
		n, err := q.RemoveLanguageSubSection(ctx, store.RemoveLanguageSubSectionParams{
			LanguageID:   languageID,
			SubSectionID: subSectionID,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return &NotFoundError{Entity: "sub-section link", ID: languageID + "/" + subSectionID}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, cache.Dependencies{LanguageIDs: []string{languageID}})
	return nil
}

func (s *LanguageService) withSubSections(ctx context.Context, rows []store.Language, op string) ([]model.Language, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	subs, err := subSectionsByLanguage(ctx, s.queries, ids)
	if err != nil {
		return nil, classify(op, err)
	}
	out := make([]model.Language, 0, len(rows))
	for _, r := range rows {
		out = append(out, languageFromRow(r, subs[r.ID]))
	}
	return out, nil
}

func loadLanguage(ctx context.Context, q *store.Queries, id string) (*model.Language, error) {
	row, err := q.GetLanguage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "language", ID: id}
	}
	if err != nil {
		return nil, err
	}
	subs, err := subSectionsByLanguage(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	lang := languageFromRow(row, subs[id])
	return &lang, nil
}

func validateLanguageFields(name, code string) error {
	if name == "" {
		return &ValidationError{Field: "language", Message: "display name must not be empty"}
	}
	if !model.IsValidLanguageCode(code) {
		return &ValidationError{Field: "language_id", Message: "invalid language code " + code}
	}
	return nil
}

// checkLanguageUnique rejects a name or code already used by another
// language of the website. selfID is excluded from the check.
func checkLanguageUnique(ctx context.Context, q *store.Queries, websiteID, selfID, name, code string) error {
	byCode, err := q.GetLanguageByCode(ctx, store.GetLanguageByCodeParams{WebsiteID: websiteID, Code: code})
	if err == nil && byCode.ID != selfID {
		return &ConflictError{Message: "language code " + code + " already used by this website"}
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	byName, err := q.GetLanguageByName(ctx, store.GetLanguageByNameParams{WebsiteID: websiteID, Name: name})
	if err == nil && byName.ID != selfID {
		return &ConflictError{Message: "language name " + name + " already used by this website"}
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

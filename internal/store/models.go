// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Website struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Language struct {
	ID        string
	WebsiteID string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LanguageSubSection struct {
	LanguageID   string
	SubSectionID string
	CreatedAt    time.Time
}

type ContentElement struct {
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

type Translation struct {
	ID               string
	ContentElementID string
	LanguageID       string
	Content          string
	IsActive         bool
	Metadata         sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Translation is the localized content of one content element in one language.
// At most one translation exists per (ContentElementID, LanguageID) pair.
type Translation struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	LanguageID       string         `json:"language_id"`
	ContentElementID string         `json:"content_element_id"`
	IsActive         bool           `json:"is_active"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// Populated references
	Language       *Language       `json:"language,omitempty"`
	ContentElement *ContentElement `json:"content_element,omitempty"`
}

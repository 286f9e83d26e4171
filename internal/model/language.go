// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"time"
)

// Language represents a content language enabled for a website.
type Language struct {
	ID          string    `json:"id"`
	WebsiteID   string    `json:"website_id"`
	Name        string    `json:"language"`    // English, Deutsch, Français
	Code        string    `json:"language_id"` // en, de, pt-BR
	IsActive    bool      `json:"is_active"`
	SubSections []string  `json:"sub_sections"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// languageCodeRegex accepts ISO 639 codes with an optional region or script subtag.
var languageCodeRegex = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,4})?$`)

// IsValidLanguageCode reports whether code looks like "en", "fil" or "pt-BR".
func IsValidLanguageCode(code string) bool {
	return languageCodeRegex.MatchString(code)
}

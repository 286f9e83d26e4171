// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryTranslation = "translation"
	EventCategoryLanguage    = "language"
	EventCategoryElement     = "element"
	EventCategoryConfig      = "config"
	EventCategoryCache       = "cache"
	EventCategorySystem      = "system"
)

// EventLevels lists the levels stored in the event log, least severe first.
var EventLevels = []string{EventLevelInfo, EventLevelWarning, EventLevelError}

// EventCategories lists the categories stored in the event log.
var EventCategories = []string{
	EventCategoryTranslation,
	EventCategoryLanguage,
	EventCategoryElement,
	EventCategoryConfig,
	EventCategoryCache,
	EventCategorySystem,
}

// IsValidEventLevel reports whether level is one of EventLevels.
func IsValidEventLevel(level string) bool {
	return slices.Contains(EventLevels, level)
}

// IsValidEventCategory reports whether category is one of EventCategories.
func IsValidEventCategory(category string) bool {
	return slices.Contains(EventCategories, category)
}

// Event represents a system event log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}

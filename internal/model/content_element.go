// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// Content element types
const (
	ElementTypeText      = "text"
	ElementTypeHeading   = "heading"
	ElementTypeArray     = "array"
	ElementTypeParagraph = "paragraph"
	ElementTypeFile      = "file"
	ElementTypeList      = "list"
	ElementTypeImage     = "image"
	ElementTypeVideo     = "video"
	ElementTypeLink      = "link"
	ElementTypeCustom    = "custom"
	ElementTypeBadge     = "badge"
	ElementTypeTextarea  = "textarea"
	ElementTypeBoolean   = "boolean"
)

// ElementTypes lists every accepted content element type.
var ElementTypes = []string{
	ElementTypeText,
	ElementTypeHeading,
	ElementTypeArray,
	ElementTypeParagraph,
	ElementTypeFile,
	ElementTypeList,
	ElementTypeImage,
	ElementTypeVideo,
	ElementTypeLink,
	ElementTypeCustom,
	ElementTypeBadge,
	ElementTypeTextarea,
	ElementTypeBoolean,
}

// IsValidElementType reports whether t is one of ElementTypes.
func IsValidElementType(t string) bool {
	for _, et := range ElementTypes {
		if et == t {
			return true
		}
	}
	return false
}

// ContentElement is a language-independent content slot inside a sub-section.
type ContentElement struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent"` // owning sub-section
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"is_active"`
	ImageURL  string    `json:"image_url,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	LinkURL   string    `json:"link_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ElementMedia groups the optional media fields of a content element.
type ElementMedia struct {
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	VideoURL string `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	FileURL  string `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty" yaml:"link_url,omitempty"`
}

// CheckMedia returns an error naming the first media field that is set
// but not allowed for elementType.
func (m ElementMedia) CheckMedia(elementType string) error {
	fields := []struct {
		name    string
		value   string
		allowed string
	}{
		{"image_url", m.ImageURL, ElementTypeImage},
		{"video_url", m.VideoURL, ElementTypeVideo},
		{"file_url", m.FileURL, ElementTypeFile},
		{"link_url", m.LinkURL, ElementTypeLink},
	}
	for _, f := range fields {
		if f.value != "" && elementType != f.allowed {
			return fmt.Errorf("%s is only allowed for %s elements", f.name, f.allowed)
		}
	}
	return nil
}

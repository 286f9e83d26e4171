// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer imports and exports translation files in JSON or YAML.
package transfer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/olegiv/wcms-go/internal/service"
)

// FileVersion is the current version of the translation file format.
const FileVersion = "1.0"

// Format is a translation file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File is the on-disk layout of a translation batch.
//
// The importer also accepts a bare list of items in place of the whole
// document.
type File struct {
	Version      string             `json:"version" yaml:"version"`
	ExportedAt   *time.Time         `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Language     *FileLanguage      `json:"language,omitempty" yaml:"language,omitempty"`
	Translations []service.BulkItem `json:"translations" yaml:"translations"`
}

// FileLanguage describes the language an export was taken from.
// Importers ignore it; it is there for readers of the file.
type FileLanguage struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"language" yaml:"language"`
	Code string `json:"language_id" yaml:"language_id"`
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/service"
)

// LanguageReader is the read side the exporter needs.
type LanguageReader interface {
	ListByLanguage(ctx context.Context, languageID string, activeOnly bool) ([]model.Translation, error)
}

// Exporter writes the translations of a language as a translation file.
type Exporter struct {
	translations LanguageReader
	logger       *slog.Logger
}

// NewExporter creates a new Exporter.
func NewExporter(translations LanguageReader, logger *slog.Logger) *Exporter {
	return &Exporter{
		translations: translations,
		logger:       logger,
	}
}

// Export builds the file for a language. Items carry their IDs, so importing
// the file again updates the same records.
func (e *Exporter) Export(ctx context.Context, languageID string) (*File, error) {
	list, err := e.translations.ListByLanguage(ctx, languageID, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	file := &File{
		Version:      FileVersion,
		ExportedAt:   &now,
		Translations: make([]service.BulkItem, 0, len(list)),
	}
	for _, t := range list {
		if file.Language == nil && t.Language != nil {
			file.Language = &FileLanguage{ID: t.Language.ID, Name: t.Language.Name, Code: t.Language.Code}
		}
		active := t.IsActive
		file.Translations = append(file.Translations, service.BulkItem{
			ID:               t.ID,
			Content:          t.Content,
			LanguageID:       t.LanguageID,
			ContentElementID: t.ContentElementID,
			IsActive:         &active,
			Metadata:         t.Metadata,
		})
	}
	return file, nil
}

// ExportLanguage writes the file for a language to w.
func (e *Exporter) ExportLanguage(ctx context.Context, languageID string, w io.Writer, format Format) error {
	file, err := e.Export(ctx, languageID)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(file)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(file)
		if err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	e.logger.Info("translations exported",
		"category", model.EventCategoryTranslation,
		"language_id", languageID,
		"items", len(file.Translations),
		"format", string(format),
	)
	return nil
}

// ExportLanguageToFile writes the file for a language to path, inferring the
// format from its extension.
func (e *Exporter) ExportLanguageToFile(ctx context.Context, languageID, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := e.ExportLanguage(ctx, languageID, f, format); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

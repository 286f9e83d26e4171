// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/service"
)

// MaxFileSize caps how much of an import file is read.
const MaxFileSize = 32 << 20

// BulkUpserter applies a batch of translation items.
type BulkUpserter interface {
	BulkUpsert(ctx context.Context, items []service.BulkItem) (*service.BulkResult, error)
}

// Importer loads translation files and hands their items to bulk upsert.
type Importer struct {
	translations BulkUpserter
	logger       *slog.Logger
}

// NewImporter creates a new Importer.
func NewImporter(translations BulkUpserter, logger *slog.Logger) *Importer {
	return &Importer{
		translations: translations,
		logger:       logger,
	}
}

// ImportFile imports a .json, .yaml or .yml file.
func (i *Importer) ImportFile(ctx context.Context, path string) (*service.BulkResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := i.Import(ctx, f, format)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return result, nil
}

// Import decodes items from r and applies them in one bulk upsert.
func (i *Importer) Import(ctx context.Context, r io.Reader, format Format) (*service.BulkResult, error) {
	items, err := Decode(r, format)
	if err != nil {
		return nil, err
	}

	result, err := i.translations.BulkUpsert(ctx, items)
	if err != nil {
		return nil, err
	}

	i.logger.Info("translations imported",
		"category", model.EventCategoryTranslation,
		"items", len(items),
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

// Decode reads the items of a translation file.
func Decode(r io.Reader, format Format) ([]service.BulkItem, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading import data: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("import data exceeds %d bytes", MaxFileSize)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("import data is empty")
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(data []byte) ([]service.BulkItem, error) {
	if data[0] == '[' {
		var items []service.BulkItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return items, nil
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := checkVersion(file.Version); err != nil {
		return nil, err
	}
	return file.Translations, nil
}

func decodeYAML(data []byte) ([]service.BulkItem, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, errors.New("import data is empty")
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var items []service.BulkItem
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return items, nil
	}

	var file File
	if err := node.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := checkVersion(file.Version); err != nil {
		return nil, err
	}
	return file.Translations, nil
}

func checkVersion(v string) error {
	if v != "" && v != FileVersion {
		return fmt.Errorf("unsupported file version %q (want %s)", v, FileVersion)
	}
	return nil
}

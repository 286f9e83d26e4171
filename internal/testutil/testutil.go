// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestDB creates a migrated database in a temp dir. It is closed when the
// test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "wcms-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// Fixture is a website with one language and one content element.
type Fixture struct {
	WebsiteID    string
	SubSectionID string
	LanguageID   string
	ElementID    string
}

// SeedFixture inserts a website, an "English" language and a heading element.
func SeedFixture(t *testing.T, db *sql.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	f := Fixture{
		WebsiteID:    uuid.NewString(),
		SubSectionID: uuid.NewString(),
		LanguageID:   uuid.NewString(),
		ElementID:    uuid.NewString(),
	}

	if _, err := q.CreateWebsite(ctx, store.CreateWebsiteParams{
		ID: f.WebsiteID, Name: "Test", Slug: "test-" + f.WebsiteID[:8], IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateWebsite: %v", err)
	}
	if _, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
		ID: f.LanguageID, WebsiteID: f.WebsiteID, Name: "English", Code: "en", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	if _, err := q.CreateContentElement(ctx, store.CreateContentElementParams{
		ID: f.ElementID, ParentID: f.SubSectionID, Name: "Title", Type: "heading", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateContentElement: %v", err)
	}
	return f
}

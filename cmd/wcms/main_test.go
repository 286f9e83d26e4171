// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/service"
)

func setupCLI(t *testing.T) {
	t.Helper()
	t.Setenv("WCMS_DB_PATH", filepath.Join(t.TempDir(), "data", "wcms.db"))
	t.Setenv("WCMS_LOG_LEVEL", "error")
	t.Setenv("WCMS_REDIS_URL", "")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, "wcms %s", strings.Join(args, " "))
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCLI_TranslationWorkflow(t *testing.T) {
	setupCLI(t)

	site := mustRun[model.Website](t, "website", "create", "Docs Site")
	assert.Equal(t, "docs-site", site.Slug)

	lang := mustRun[model.Language](t, "language", "add", site.ID, "de", "Deutsch")
	assert.Equal(t, "de", lang.Code)

	parent := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	el := mustRun[model.ContentElement](t, "element", "add", parent, "Title", "--type", "heading")

	tr := mustRun[model.Translation](t, "translation", "create", el.ID, lang.ID, "Hallo", "--metadata", `{"source":"cli"}`)
	assert.Equal(t, "cli", tr.Metadata["source"])

	got := mustRun[model.Translation](t, "translation", "get", el.ID, lang.ID)
	assert.Equal(t, tr.ID, got.ID)

	updated := mustRun[model.Translation](t, "translation", "update", tr.ID, "--content", "Hallo Welt")
	assert.Equal(t, "Hallo Welt", updated.Content)

	list := mustRun[[]model.Translation](t, "translation", "list", "--language", lang.ID)
	require.Len(t, list, 1)

	exportPath := filepath.Join(t.TempDir(), "de.json")
	_, err := runCLI(t, "translation", "export", lang.ID, "-o", exportPath)
	require.NoError(t, err)

	res := mustRun[service.BulkResult](t, "translation", "import", exportPath)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)

	_, err = runCLI(t, "element", "delete", el.ID, "--hard")
	assert.True(t, service.IsConflict(err), "got %v", err)
	assert.Equal(t, exitConflict, exitCode(err))

	_, err = runCLI(t, "translation", "delete", tr.ID, "--hard")
	require.NoError(t, err)
	_, err = runCLI(t, "element", "delete", el.ID, "--hard")
	require.NoError(t, err)
}

func TestCLI_Errors(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "translation", "get", "not-a-uuid")
	assert.Equal(t, exitValidation, exitCode(err))

	_, err = runCLI(t, "translation", "get", "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, exitNotFound, exitCode(err))

	_, err = runCLI(t, "translation", "list")
	assert.Error(t, err)

	_, err = runCLI(t, "translation", "create", "a", "b", "c", "--metadata", "[1]")
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestCLI_MigrateAndCache(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version 1")

	stats := mustRun[map[string]any](t, "cache", "stats")
	info, ok := stats["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "memory", info["backend"])

	out, err = runCLI(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cache cleared")
}

func TestCLI_EnvFile(t *testing.T) {
	setupCLI(t)
	dbPath := filepath.Join(t.TempDir(), "fromenv.db")
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("WCMS_BULK_BATCH_SIZE=5\n"), 0o600))
	t.Setenv("WCMS_DB_PATH", dbPath)

	_, err := runCLI(t, "--env-file", envFile, "migrate")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	_, err = runCLI(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "migrate")
	assert.Error(t, err)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/store"
	"github.com/olegiv/wcms-go/internal/testutil"
)

func TestEventService_LogAndList(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategoryTranslation, "imported", map[string]any{"created": 3}))
	require.NoError(t, svc.LogWarning(ctx, model.EventCategoryCache, "redis unavailable", nil))
	require.NoError(t, svc.LogError(ctx, model.EventCategorySystem, "disk full", nil))

	events, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "disk full", events[0].Message)
	assert.Equal(t, model.EventLevelError, events[0].Level)
	assert.Equal(t, model.EventLevelWarning, events[1].Level)
	assert.Equal(t, "{}", events[1].Metadata)

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(events[2].Metadata), &meta))
	assert.EqualValues(t, 3, meta["created"])

	limited, err := svc.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.ListRecent(ctx, 0)
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestEventService_RejectsUnknownLevelAndCategory(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	err := svc.LogEvent(ctx, "debug", model.EventCategorySystem, "x", nil)
	assert.True(t, IsValidation(err), "got %v", err)

	err = svc.LogInfo(ctx, "page", "x", nil)
	assert.True(t, IsValidation(err), "got %v", err)

	events, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventService_DeleteOldEvents(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	_, err := store.New(db).CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "old",
		Metadata:  "{}",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "new", nil))

	n, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Message)
}

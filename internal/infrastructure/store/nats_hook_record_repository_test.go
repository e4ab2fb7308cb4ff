// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
)

func TestNatsHookRecordRepository_SaveAndGet(t *testing.T) {
	repo := NewNatsHookRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	record := &models.HookRecord{
		InternalMeetingID: "abc123-160",
		HookID:            "7",
		Endpoint:          "https://rooms-1.example.org/bigbluebutton/",
	}
	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.Get(ctx, "abc123-160")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	exists, err := repo.Exists(ctx, "abc123-160")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNatsHookRecordRepository_GetNotFound(t *testing.T) {
	repo := NewNatsHookRecordRepository(newMockNatsKeyValue())

	got, err := repo.Get(context.Background(), "missing")
	assert.Nil(t, got)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsHookRecordRepository_UpdateWithRevision(t *testing.T) {
	repo := NewNatsHookRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	record := &models.HookRecord{InternalMeetingID: "abc123-160", HookID: "7"}
	require.NoError(t, repo.Save(ctx, record))

	got, revision, err := repo.GetWithRevision(ctx, "abc123-160")
	require.NoError(t, err)

	got.HaveRecord = true
	require.NoError(t, repo.Update(ctx, got, revision))

	updated, err := repo.Get(ctx, "abc123-160")
	require.NoError(t, err)
	assert.True(t, updated.HaveRecord)

	// A stale revision must be rejected as a conflict.
	err = repo.Update(ctx, got, revision)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsHookRecordRepository_Delete(t *testing.T) {
	repo := NewNatsHookRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.HookRecord{InternalMeetingID: "abc123-160"}))
	require.NoError(t, repo.Delete(ctx, "abc123-160"))

	exists, err := repo.Exists(ctx, "abc123-160")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Delete(ctx, "abc123-160")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsHookRecordRepository_NotReady(t *testing.T) {
	repo := NewNatsHookRecordRepository(nil)

	assert.False(t, repo.IsReady())

	_, err := repo.Get(context.Background(), "abc123-160")
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

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

func TestNatsViewTrackingRecordRepository_SaveGetUpdate(t *testing.T) {
	repo := NewNatsViewTrackingRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	record := &models.ViewTrackingRecord{
		InternalMeetingID: "abc123-160",
		UserID:            "user-1",
		TimeJoined:        1700000001000,
		Counter:           0,
	}
	require.NoError(t, repo.Save(ctx, record))

	got, revision, err := repo.Get(ctx, "abc123-160", "user-1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	got.Counter++
	require.NoError(t, repo.Update(ctx, got, revision))

	updated, _, err := repo.Get(ctx, "abc123-160", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Counter)
}

func TestNatsViewTrackingRecordRepository_StaleRevisionConflicts(t *testing.T) {
	repo := NewNatsViewTrackingRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	record := &models.ViewTrackingRecord{InternalMeetingID: "abc123-160", UserID: "user-1"}
	require.NoError(t, repo.Save(ctx, record))

	_, revision, err := repo.Get(ctx, "abc123-160", "user-1")
	require.NoError(t, err)

	record.Counter = 1
	require.NoError(t, repo.Update(ctx, record, revision))

	err = repo.Update(ctx, record, revision)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsViewTrackingRecordRepository_ListByMeeting(t *testing.T) {
	repo := NewNatsViewTrackingRecordRepository(newMockNatsKeyValue())
	ctx := context.Background()

	for _, record := range []*models.ViewTrackingRecord{
		{InternalMeetingID: "abc123-160", UserID: "user-1"},
		{InternalMeetingID: "abc123-160", UserID: "user-2"},
		{InternalMeetingID: "other-meeting", UserID: "user-3"},
	} {
		require.NoError(t, repo.Save(ctx, record))
	}

	records, err := repo.ListByMeeting(ctx, "abc123-160")
	require.NoError(t, err)
	require.Len(t, records, 2)

	users := []string{records[0].UserID, records[1].UserID}
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)
}

func TestNatsViewTrackingRecordRepository_DeleteMissing(t *testing.T) {
	repo := NewNatsViewTrackingRecordRepository(newMockNatsKeyValue())

	err := repo.Delete(context.Background(), "abc123-160", "user-1")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsViewTrackingEntryRepository_CreateAndListBySession(t *testing.T) {
	repo := NewNatsViewTrackingEntryRepository(newMockNatsKeyValue())
	ctx := context.Background()

	entries := []*models.ViewTrackingEntry{
		{UID: "e1", SessionUID: "session-1", UserID: "user-1", Duration: 3},
		{UID: "e2", SessionUID: "session-1", UserID: "user-2", Duration: models.DurationUnknown},
		{UID: "e3", SessionUID: "session-2", UserID: "user-1", Duration: 10},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Create(ctx, entry))
	}

	got, err := repo.ListBySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, entry := range got {
		assert.Equal(t, "session-1", entry.SessionUID)
	}
}

func TestNatsViewTrackingEntryRepository_CreateRequiresUID(t *testing.T) {
	repo := NewNatsViewTrackingEntryRepository(newMockNatsKeyValue())

	err := repo.Create(context.Background(), &models.ViewTrackingEntry{SessionUID: "session-1"})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

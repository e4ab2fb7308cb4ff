// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
)

// memTrackingRepo is an in-memory ViewTrackingRecordRepository with
// revision-checked updates, mirroring the KV store semantics.
type memTrackingRepo struct {
	mu        sync.Mutex
	records   map[string]*models.ViewTrackingRecord
	revisions map[string]uint64
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{
		records:   make(map[string]*models.ViewTrackingRecord),
		revisions: make(map[string]uint64),
	}
}

func trackingKey(internalMeetingID, userID string) string {
	return internalMeetingID + "/" + userID
}

func (r *memTrackingRepo) Get(ctx context.Context, internalMeetingID, userID string) (*models.ViewTrackingRecord, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trackingKey(internalMeetingID, userID)
	record, ok := r.records[key]
	if !ok {
		return nil, 0, domain.NewNotFoundError("tracking record not found")
	}
	clone := *record
	return &clone, r.revisions[key], nil
}

func (r *memTrackingRepo) Save(ctx context.Context, record *models.ViewTrackingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trackingKey(record.InternalMeetingID, record.UserID)
	clone := *record
	r.records[key] = &clone
	r.revisions[key]++
	return nil
}

func (r *memTrackingRepo) Update(ctx context.Context, record *models.ViewTrackingRecord, revision uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trackingKey(record.InternalMeetingID, record.UserID)
	if r.revisions[key] != revision {
		return domain.NewConflictError("revision mismatch")
	}
	clone := *record
	r.records[key] = &clone
	r.revisions[key]++
	return nil
}

func (r *memTrackingRepo) Delete(ctx context.Context, internalMeetingID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := trackingKey(internalMeetingID, userID)
	if _, ok := r.records[key]; !ok {
		return domain.NewNotFoundError("tracking record not found")
	}
	delete(r.records, key)
	delete(r.revisions, key)
	return nil
}

func (r *memTrackingRepo) ListByMeeting(ctx context.Context, internalMeetingID string) ([]*models.ViewTrackingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []*models.ViewTrackingRecord
	for _, record := range r.records {
		if record.InternalMeetingID == internalMeetingID {
			clone := *record
			records = append(records, &clone)
		}
	}
	return records, nil
}

// memEntryRepo is an in-memory ViewTrackingEntryRepository.
type memEntryRepo struct {
	mu      sync.Mutex
	entries []*models.ViewTrackingEntry
}

func (r *memEntryRepo) Create(ctx context.Context, entry *models.ViewTrackingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memEntryRepo) ListBySession(ctx context.Context, sessionUID string) ([]*models.ViewTrackingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*models.ViewTrackingEntry
	for _, entry := range r.entries {
		if entry.SessionUID == sessionUID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func newViewTrackingFixture() (*ViewTrackingService, *memTrackingRepo, *memEntryRepo) {
	trackingRepo := newMemTrackingRepo()
	entryRepo := &memEntryRepo{}
	return NewViewTrackingService(trackingRepo, entryRepo), trackingRepo, entryRepo
}

func TestRecordJoinCreatesRecordWithCounterZero(t *testing.T) {
	svc, trackingRepo, _ := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))

	record, _, err := trackingRepo.Get(ctx, "abc123-160", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), record.TimeJoined)
	assert.Equal(t, 0, record.Counter)
}

func TestRecordJoinDuplicateIncrementsCounter(t *testing.T) {
	svc, trackingRepo, _ := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))
	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 2000))

	record, _, err := trackingRepo.Get(ctx, "abc123-160", "user-1")
	require.NoError(t, err)
	// The first join keeps its timestamp; the duplicate only bumps the counter.
	assert.Equal(t, int64(1000), record.TimeJoined)
	assert.Equal(t, 1, record.Counter)
}

func TestRecordLeaveWithoutRecordIsNoOp(t *testing.T) {
	svc, _, entryRepo := newViewTrackingFixture()

	handled, err := svc.RecordLeave(context.Background(), "abc123-160", "user-1", "session-1", 3000, false)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, entryRepo.entries)
}

func TestRecordLeaveFlushesLastConnection(t *testing.T) {
	svc, trackingRepo, entryRepo := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))

	handled, err := svc.RecordLeave(ctx, "abc123-160", "user-1", "session-1", 6000, false)
	require.NoError(t, err)
	assert.True(t, handled)

	require.Len(t, entryRepo.entries, 1)
	entry := entryRepo.entries[0]
	assert.Equal(t, "session-1", entry.SessionUID)
	assert.Equal(t, int64(1000), entry.TimeJoined)
	assert.Equal(t, int64(6000), entry.TimeLeft)
	assert.Equal(t, int64(5), entry.Duration)
	assert.NotEmpty(t, entry.UID)

	_, _, err = trackingRepo.Get(ctx, "abc123-160", "user-1")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestRecordLeaveUnknownJoinTimeYieldsSentinel(t *testing.T) {
	svc, _, entryRepo := newViewTrackingFixture()
	ctx := context.Background()

	// A join whose envelope carried no parseable timestamp.
	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 0))

	handled, err := svc.RecordLeave(ctx, "abc123-160", "user-1", "session-1", 5000, false)
	require.NoError(t, err)
	assert.True(t, handled)

	require.Len(t, entryRepo.entries, 1)
	assert.Equal(t, models.DurationUnknown, entryRepo.entries[0].Duration)
}

func TestDuplicateJoinThenTwoLeaves(t *testing.T) {
	svc, _, entryRepo := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))
	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 2000))

	handled, err := svc.RecordLeave(ctx, "abc123-160", "user-1", "session-1", 3000, false)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Empty(t, entryRepo.entries, "first leave only closes one of two connections")

	handled, err = svc.RecordLeave(ctx, "abc123-160", "user-1", "session-1", 4000, false)
	require.NoError(t, err)
	assert.True(t, handled)

	require.Len(t, entryRepo.entries, 1)
	entry := entryRepo.entries[0]
	assert.Equal(t, int64(1000), entry.TimeJoined)
	assert.Equal(t, int64(4000), entry.TimeLeft)
	assert.Equal(t, int64(3), entry.Duration)
}

func TestRecordLeaveMeetingEndedForcesFlush(t *testing.T) {
	svc, trackingRepo, entryRepo := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))
	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 2000))

	// With two open connections, a meeting-ended flush fires regardless of
	// the counter.
	handled, err := svc.RecordLeave(ctx, "abc123-160", "user-1", "session-1", 9000, true)
	require.NoError(t, err)
	assert.True(t, handled)
	require.Len(t, entryRepo.entries, 1)

	_, _, err = trackingRepo.Get(ctx, "abc123-160", "user-1")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestActiveUsers(t *testing.T) {
	svc, _, _ := newViewTrackingFixture()
	ctx := context.Background()

	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-1", 1000))
	require.NoError(t, svc.RecordJoin(ctx, "abc123-160", "user-2", 1500))
	require.NoError(t, svc.RecordJoin(ctx, "other-meeting", "user-3", 2000))

	userIDs, err := svc.ActiveUsers(ctx, "abc123-160")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, userIDs)
}

func TestServiceReady(t *testing.T) {
	svc, _, _ := newViewTrackingFixture()
	assert.True(t, svc.ServiceReady())
	assert.False(t, NewViewTrackingService(nil, nil).ServiceReady())
}

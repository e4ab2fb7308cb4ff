// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// NatsViewTrackingRecordRepository is the NATS KV implementation of
// [domain.ViewTrackingRecordRepository] over the room-tracking bucket.
type NatsViewTrackingRecordRepository struct {
	*NatsBaseRepository[models.ViewTrackingRecord]
	keyBuilder *KeyBuilder
}

// NewNatsViewTrackingRecordRepository creates a new repository over the given bucket.
func NewNatsViewTrackingRecordRepository(kvStore INatsKeyValue) *NatsViewTrackingRecordRepository {
	return &NatsViewTrackingRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.ViewTrackingRecord](kvStore, "view tracking record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsViewTrackingRecordRepository) encodedKey(internalMeetingID, userID string) (string, error) {
	key, err := r.keyBuilder.EncodeKey(r.keyBuilder.TrackingKey(internalMeetingID, userID))
	if err != nil {
		return "", domain.NewValidationError("invalid view tracking key", err)
	}
	return key, nil
}

// Get retrieves a user's tracking record together with its KV revision.
func (r *NatsViewTrackingRecordRepository) Get(ctx context.Context, internalMeetingID, userID string) (*models.ViewTrackingRecord, uint64, error) {
	key, err := r.encodedKey(internalMeetingID, userID)
	if err != nil {
		return nil, 0, err
	}
	return r.GetWithRevision(ctx, key)
}

// Save stores the tracking record, overwriting any existing one.
func (r *NatsViewTrackingRecordRepository) Save(ctx context.Context, record *models.ViewTrackingRecord) error {
	key, err := r.encodedKey(record.InternalMeetingID, record.UserID)
	if err != nil {
		return err
	}
	return r.Put(ctx, key, record)
}

// Update updates the tracking record with optimistic concurrency control.
func (r *NatsViewTrackingRecordRepository) Update(ctx context.Context, record *models.ViewTrackingRecord, revision uint64) error {
	key, err := r.encodedKey(record.InternalMeetingID, record.UserID)
	if err != nil {
		return err
	}
	return r.NatsBaseRepository.Update(ctx, key, record, revision)
}

// Delete removes a user's tracking record.
func (r *NatsViewTrackingRecordRepository) Delete(ctx context.Context, internalMeetingID, userID string) error {
	key, err := r.encodedKey(internalMeetingID, userID)
	if err != nil {
		return err
	}
	return r.NatsBaseRepository.Delete(ctx, key)
}

// ListByMeeting returns all live tracking records of a meeting.
func (r *NatsViewTrackingRecordRepository) ListByMeeting(ctx context.Context, internalMeetingID string) ([]*models.ViewTrackingRecord, error) {
	return r.ListEntitiesDecoded(ctx, r.keyBuilder.TrackingPrefix(internalMeetingID), r.keyBuilder)
}

// NatsViewTrackingEntryRepository is the NATS KV implementation of
// [domain.ViewTrackingEntryRepository] over the room-view-entries bucket.
// Entries are keyed by their UID, so keys need no encoding.
type NatsViewTrackingEntryRepository struct {
	*NatsBaseRepository[models.ViewTrackingEntry]
}

// NewNatsViewTrackingEntryRepository creates a new repository over the given bucket.
func NewNatsViewTrackingEntryRepository(kvStore INatsKeyValue) *NatsViewTrackingEntryRepository {
	return &NatsViewTrackingEntryRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.ViewTrackingEntry](kvStore, "view tracking entry"),
	}
}

// Create appends a new view tracking entry.
func (r *NatsViewTrackingEntryRepository) Create(ctx context.Context, entry *models.ViewTrackingEntry) error {
	if entry.UID == "" {
		return domain.NewValidationError("view tracking entry UID is required")
	}
	return r.Put(ctx, entry.UID, entry)
}

// ListBySession returns all view tracking entries recorded for a session.
func (r *NatsViewTrackingEntryRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.ViewTrackingEntry, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	var entries []*models.ViewTrackingEntry
	for _, key := range keys {
		entry, err := r.NatsBaseRepository.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "failed to get view tracking entry, skipping",
				"key", key, logging.ErrKey, err)
			continue
		}
		if entry.SessionUID == sessionUID {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

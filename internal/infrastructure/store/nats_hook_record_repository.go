// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
)

// NatsHookRecordRepository is the NATS KV implementation of
// [domain.HookRecordRepository] over the room-hooks bucket.
type NatsHookRecordRepository struct {
	*NatsBaseRepository[models.HookRecord]
	keyBuilder *KeyBuilder
}

// NewNatsHookRecordRepository creates a new repository over the given bucket.
func NewNatsHookRecordRepository(kvStore INatsKeyValue) *NatsHookRecordRepository {
	return &NatsHookRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.HookRecord](kvStore, "hook record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsHookRecordRepository) encodedKey(internalMeetingID string) (string, error) {
	key, err := r.keyBuilder.EncodeKey(r.keyBuilder.HookKey(internalMeetingID))
	if err != nil {
		return "", domain.NewValidationError("invalid hook record key", err)
	}
	return key, nil
}

// Get retrieves the hook record of a meeting.
func (r *NatsHookRecordRepository) Get(ctx context.Context, internalMeetingID string) (*models.HookRecord, error) {
	record, _, err := r.GetWithRevision(ctx, internalMeetingID)
	return record, err
}

// GetWithRevision retrieves the hook record together with its KV revision.
func (r *NatsHookRecordRepository) GetWithRevision(ctx context.Context, internalMeetingID string) (*models.HookRecord, uint64, error) {
	key, err := r.encodedKey(internalMeetingID)
	if err != nil {
		return nil, 0, err
	}
	return r.NatsBaseRepository.GetWithRevision(ctx, key)
}

// Exists checks whether a hook record exists for the meeting.
func (r *NatsHookRecordRepository) Exists(ctx context.Context, internalMeetingID string) (bool, error) {
	key, err := r.encodedKey(internalMeetingID)
	if err != nil {
		return false, err
	}
	return r.NatsBaseRepository.Exists(ctx, key)
}

// Save stores the hook record, overwriting any existing one.
func (r *NatsHookRecordRepository) Save(ctx context.Context, record *models.HookRecord) error {
	key, err := r.encodedKey(record.InternalMeetingID)
	if err != nil {
		return err
	}
	return r.NatsBaseRepository.Put(ctx, key, record)
}

// Update updates the hook record with optimistic concurrency control.
func (r *NatsHookRecordRepository) Update(ctx context.Context, record *models.HookRecord, revision uint64) error {
	key, err := r.encodedKey(record.InternalMeetingID)
	if err != nil {
		return err
	}
	return r.NatsBaseRepository.Update(ctx, key, record, revision)
}

// Delete removes the hook record of a meeting.
func (r *NatsHookRecordRepository) Delete(ctx context.Context, internalMeetingID string) error {
	key, err := r.encodedKey(internalMeetingID)
	if err != nil {
		return err
	}
	return r.NatsBaseRepository.Delete(ctx, key)
}

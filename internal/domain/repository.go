// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// HookRecordRepository persists the at-most-one webhook subscription per
// meeting.
type HookRecordRepository interface {
	Get(ctx context.Context, internalMeetingID string) (*models.HookRecord, error)
	GetWithRevision(ctx context.Context, internalMeetingID string) (*models.HookRecord, uint64, error)
	Exists(ctx context.Context, internalMeetingID string) (bool, error)
	Save(ctx context.Context, record *models.HookRecord) error
	Update(ctx context.Context, record *models.HookRecord, revision uint64) error
	Delete(ctx context.Context, internalMeetingID string) error
}

// ViewTrackingRecordRepository persists the live per-(meeting,user) join
// counters. Get returns the KV revision so that read-modify-write cycles can
// use compare-and-swap updates.
type ViewTrackingRecordRepository interface {
	Get(ctx context.Context, internalMeetingID, userID string) (*models.ViewTrackingRecord, uint64, error)
	Save(ctx context.Context, record *models.ViewTrackingRecord) error
	Update(ctx context.Context, record *models.ViewTrackingRecord, revision uint64) error
	Delete(ctx context.Context, internalMeetingID, userID string) error
	ListByMeeting(ctx context.Context, internalMeetingID string) ([]*models.ViewTrackingRecord, error)
}

// ViewTrackingEntryRepository stores the durable append-only view records
// flushed when a user finally leaves a meeting.
type ViewTrackingEntryRepository interface {
	Create(ctx context.Context, entry *models.ViewTrackingEntry) error
	ListBySession(ctx context.Context, sessionUID string) ([]*models.ViewTrackingEntry, error)
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// casMaxRetries bounds the compare-and-swap retry loops on the tracking
// counters. Contention on a single (meeting, user) counter is rare, so a
// small bound is enough.
const casMaxRetries = 3

// ViewTrackingService accumulates join/leave events per (meeting, user) into
// a live counter and flushes a durable view entry once the user is gone.
type ViewTrackingService struct {
	trackingRepo domain.ViewTrackingRecordRepository
	entryRepo    domain.ViewTrackingEntryRepository
}

// NewViewTrackingService creates a new ViewTrackingService.
func NewViewTrackingService(
	trackingRepo domain.ViewTrackingRecordRepository,
	entryRepo domain.ViewTrackingEntryRepository,
) *ViewTrackingService {
	return &ViewTrackingService{
		trackingRepo: trackingRepo,
		entryRepo:    entryRepo,
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *ViewTrackingService) ServiceReady() bool {
	return s.trackingRepo != nil && s.entryRepo != nil
}

// RecordJoin registers one join event for the user. The first join creates
// the record with Counter 0; every further concurrent join (another tab, a
// reconnect) increments the counter.
func (s *ViewTrackingService) RecordJoin(ctx context.Context, internalMeetingID, userID string, timestamp int64) error {
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", internalMeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", userID))

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		record, revision, err := s.trackingRepo.Get(ctx, internalMeetingID, userID)
		if err != nil {
			if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
				return err
			}

			err := s.trackingRepo.Save(ctx, &models.ViewTrackingRecord{
				InternalMeetingID: internalMeetingID,
				UserID:            userID,
				TimeJoined:        timestamp,
				Counter:           0,
			})
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "created view tracking record", "time_joined", timestamp)
			return nil
		}

		record.Counter++
		err = s.trackingRepo.Update(ctx, record, revision)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				slog.DebugContext(ctx, "view tracking counter update conflict, retrying", "attempt", attempt+1)
				continue
			}
			return err
		}
		slog.DebugContext(ctx, "incremented view tracking counter", "counter", record.Counter)
		return nil
	}

	return domain.NewConflictError("view tracking counter update kept conflicting")
}

// RecordLeave registers one leave event for the user. It returns false when
// no tracking record exists: a dangling leave is tolerated, not an error.
// When the meeting has ended or the counter drops below 1, the record is
// flushed into a durable view entry and deleted.
func (s *ViewTrackingService) RecordLeave(ctx context.Context, internalMeetingID, userID, sessionUID string, timestamp int64, meetingEnded bool) (bool, error) {
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", internalMeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", userID))

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		record, revision, err := s.trackingRepo.Get(ctx, internalMeetingID, userID)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				slog.DebugContext(ctx, "leave event without tracking record, ignoring")
				return false, nil
			}
			return false, err
		}

		// Counter 0 denotes exactly one open join, so a leave that finds the
		// counter below 1 closes the user's last connection and flushes.
		if meetingEnded || record.Counter < 1 {
			if err := s.flush(ctx, record, sessionUID, timestamp); err != nil {
				return false, err
			}
			return true, nil
		}

		record.Counter--
		err = s.trackingRepo.Update(ctx, record, revision)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				slog.DebugContext(ctx, "view tracking counter update conflict, retrying", "attempt", attempt+1)
				continue
			}
			return false, err
		}
		slog.DebugContext(ctx, "decremented view tracking counter", "counter", record.Counter)
		return true, nil
	}

	return false, domain.NewConflictError("view tracking counter update kept conflicting")
}

// flush appends a durable view entry and deletes the live record.
func (s *ViewTrackingService) flush(ctx context.Context, record *models.ViewTrackingRecord, sessionUID string, timeLeft int64) error {
	entry := &models.ViewTrackingEntry{
		UID:               uuid.New().String(),
		SessionUID:        sessionUID,
		UserID:            record.UserID,
		InternalMeetingID: record.InternalMeetingID,
		TimeJoined:        record.TimeJoined,
		TimeLeft:          timeLeft,
		Duration:          models.ViewDurationSeconds(record.TimeJoined, timeLeft),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return err
	}

	err := s.trackingRepo.Delete(ctx, record.InternalMeetingID, record.UserID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}

	slog.DebugContext(ctx, "flushed view tracking entry",
		"entry_uid", entry.UID,
		"duration", entry.Duration,
	)
	return nil
}

// ActiveUsers returns the IDs of users with an open tracking record for the
// meeting.
func (s *ViewTrackingService) ActiveUsers(ctx context.Context, internalMeetingID string) ([]string, error) {
	records, err := s.trackingRepo.ListByMeeting(ctx, internalMeetingID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(records))
	for _, record := range records {
		userIDs = append(userIDs, record.UserID)
	}
	return userIDs, nil
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/pkg/constants"
)

// HookRegistryService manages the at-most-one webhook subscription per
// meeting: it registers hooks on the control plane and mirrors them into the
// KV store so teardown knows what to destroy.
type HookRegistryService struct {
	hookRepo   domain.HookRecordRepository
	roomClient domain.RoomClient
}

// NewHookRegistryService creates a new HookRegistryService.
func NewHookRegistryService(
	hookRepo domain.HookRecordRepository,
	roomClient domain.RoomClient,
) *HookRegistryService {
	return &HookRegistryService{
		hookRepo:   hookRepo,
		roomClient: roomClient,
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *HookRegistryService) ServiceReady() bool {
	return s.hookRepo != nil && s.roomClient != nil
}

// ResolveMeeting scans the configured endpoints in priority order and returns
// the meeting's state from the first endpoint that knows it, or nil when none
// do.
func (s *HookRegistryService) ResolveMeeting(ctx context.Context, meetingID string) (*models.MeetingInfo, error) {
	for _, endpoint := range s.roomClient.Endpoints() {
		info, err := s.roomClient.GetMeetingInfo(ctx, meetingID, endpoint)
		if err != nil {
			slog.WarnContext(ctx, "endpoint did not answer getMeetingInfo, trying next",
				logging.ErrKey, err, "endpoint", endpoint, "meeting_id", meetingID)
			continue
		}
		if info != nil {
			return info, nil
		}
	}
	return nil, nil
}

// GetHookRecord returns the persisted hook record for the meeting, or nil
// when there is none.
func (s *HookRegistryService) GetHookRecord(ctx context.Context, internalMeetingID string) (*models.HookRecord, error) {
	record, err := s.hookRepo.Get(ctx, internalMeetingID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// RegisterHook subscribes callbackURL to the meeting's lifecycle events and
// persists the subscription. An existing record with a hook ID short-circuits
// as success, so re-registration is idempotent by intent; there is no
// distributed lock, a race between two workers can still register twice.
// An empty endpoint triggers ordered endpoint resolution.
func (s *HookRegistryService) RegisterHook(ctx context.Context, callbackURL, meetingID, internalMeetingID, endpoint string) error {
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", internalMeetingID))

	existing, err := s.GetHookRecord(ctx, internalMeetingID)
	if err != nil {
		return err
	}
	if existing != nil && existing.HookID != "" {
		slog.DebugContext(ctx, "hook already registered", "hook_id", existing.HookID)
		return nil
	}

	if endpoint == "" {
		info, err := s.ResolveMeeting(ctx, meetingID)
		if err != nil {
			return err
		}
		if info == nil {
			return domain.NewNotFoundError("no endpoint reports the meeting").
				WithCode(constants.ReasonMeetingNotFound)
		}
		endpoint = info.Endpoint
	}

	resp, err := s.roomClient.CreateHook(ctx, callbackURL, meetingID, endpoint, false)
	if err != nil {
		return err
	}
	if resp.ReturnCode != models.ReturnCodeSuccess {
		return domain.NewInternalError("hook creation failed: " + resp.Message)
	}

	record := &models.HookRecord{
		InternalMeetingID: internalMeetingID,
		HookID:            resp.HookID,
		Endpoint:          endpoint,
	}
	if existing != nil {
		record.HaveRecord = existing.HaveRecord
	}
	if err := s.hookRepo.Save(ctx, record); err != nil {
		return err
	}

	slog.InfoContext(ctx, "registered room hook",
		"hook_id", resp.HookID,
		"endpoint", endpoint,
		"callback_url", callbackURL,
	)
	return nil
}

// DestroyHook removes a webhook subscription from the control plane without
// touching the KV store.
func (s *HookRegistryService) DestroyHook(ctx context.Context, hookID, endpoint string) error {
	return s.roomClient.DestroyHook(ctx, hookID, endpoint)
}

// DestroyHookByMeetingID tears down the meeting's hook subscription. A
// missing record is a no-op success; a failing remote destroy is logged and
// does not block deleting the KV record.
func (s *HookRegistryService) DestroyHookByMeetingID(ctx context.Context, internalMeetingID string) error {
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", internalMeetingID))

	record, err := s.GetHookRecord(ctx, internalMeetingID)
	if err != nil {
		return err
	}
	if record == nil {
		slog.DebugContext(ctx, "no hook record to destroy")
		return nil
	}

	if record.HookID != "" {
		if err := s.roomClient.DestroyHook(ctx, record.HookID, record.Endpoint); err != nil {
			slog.WarnContext(ctx, "failed to destroy remote hook, deleting record anyway",
				logging.ErrKey, err, "hook_id", record.HookID, "endpoint", record.Endpoint)
		}
	}

	err = s.hookRepo.Delete(ctx, internalMeetingID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}

	slog.InfoContext(ctx, "destroyed room hook", "hook_id", record.HookID)
	return nil
}

// MarkRecordingAvailable flags the meeting's hook record so that teardown
// re-registers a hook for recording-publication events. A missing record is a
// no-op.
func (s *HookRegistryService) MarkRecordingAvailable(ctx context.Context, internalMeetingID string) error {
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", internalMeetingID))

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		record, revision, err := s.hookRepo.GetWithRevision(ctx, internalMeetingID)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				slog.DebugContext(ctx, "no hook record to flag for recording")
				return nil
			}
			return err
		}
		if record.HaveRecord {
			return nil
		}

		record.HaveRecord = true
		err = s.hookRepo.Update(ctx, record, revision)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				continue
			}
			return err
		}
		slog.DebugContext(ctx, "flagged meeting as recorded")
		return nil
	}

	return domain.NewConflictError("hook record update kept conflicting")
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

// Package handlers contains the queue consumers that process room webhook
// envelopes.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/internal/service"
	"github.com/openlms/live-session-service/pkg/concurrent"
	"github.com/openlms/live-session-service/pkg/utils"
)

// flushWorkerCount bounds the parallelism of the meeting-ended force-flush.
const flushWorkerCount = 10

// DefaultRedeliveryDelay is how long a failed message waits before the queue
// redelivers it.
const DefaultRedeliveryDelay = 30 * time.Second

// RoomHookHandlerConfig holds the static configuration of the dispatcher.
type RoomHookHandlerConfig struct {
	// RecordedHookCallbackURL receives recording-publication envelopes from
	// hooks re-registered during meeting teardown.
	RecordedHookCallbackURL string
	// RedeliveryDelay is used for NakWithDelay on handler failure.
	RedeliveryDelay time.Duration
}

// RoomHookHandler consumes the two durable room-hook queues and routes each
// event to the owning service.
type RoomHookHandler struct {
	config        RoomHookHandlerConfig
	hookRegistry  *service.HookRegistryService
	viewTracking  *service.ViewTrackingService
	sessionClient domain.SessionServiceClient
	flushPool     *concurrent.WorkerPool
}

// NewRoomHookHandler creates a new RoomHookHandler.
func NewRoomHookHandler(
	config RoomHookHandlerConfig,
	hookRegistry *service.HookRegistryService,
	viewTracking *service.ViewTrackingService,
	sessionClient domain.SessionServiceClient,
) *RoomHookHandler {
	if config.RedeliveryDelay == 0 {
		config.RedeliveryDelay = DefaultRedeliveryDelay
	}
	return &RoomHookHandler{
		config:        config,
		hookRegistry:  hookRegistry,
		viewTracking:  viewTracking,
		sessionClient: sessionClient,
		flushPool:     concurrent.NewWorkerPool(flushWorkerCount),
	}
}

// HandlerReady implements [domain.MessageHandler].
func (h *RoomHookHandler) HandlerReady() bool {
	return h.hookRegistry.ServiceReady() &&
		h.viewTracking.ServiceReady() &&
		h.sessionClient != nil
}

// HandleMessage implements [domain.MessageHandler]. Messages are acked after
// successful handling (no-ops included) and nacked with a delay otherwise.
func (h *RoomHookHandler) HandleMessage(ctx context.Context, msg domain.QueueMessage) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling queue message")

	handlers := map[string]func(ctx context.Context, event *models.RoomHookEvent) error{
		models.RoomHookEventSubject:         h.handleRoomEvent,
		models.RoomRecordedHookEventSubject: h.handleRecordedEvent,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject, dropping message")
		h.ack(ctx, msg)
		return
	}

	event, err := h.parseEvent(ctx, msg)
	if err != nil {
		// A payload the decoder rejects will never parse on redelivery.
		slog.ErrorContext(ctx, "dropping unparseable webhook envelope", logging.ErrKey, err)
		h.ack(ctx, msg)
		return
	}
	if event == nil {
		slog.DebugContext(ctx, "webhook envelope without event, ignoring")
		h.ack(ctx, msg)
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_id", event.ID))
	if err := handler(ctx, event); err != nil {
		slog.ErrorContext(ctx, "error handling room hook event, requesting redelivery",
			logging.ErrKey, err,
			"redelivery_delay", h.config.RedeliveryDelay.String(),
		)
		if err := msg.NakWithDelay(h.config.RedeliveryDelay); err != nil {
			slog.ErrorContext(ctx, "error nacking queue message", logging.ErrKey, err)
		}
		return
	}

	h.ack(ctx, msg)
}

func (h *RoomHookHandler) ack(ctx context.Context, msg domain.QueueMessage) {
	if err := msg.Ack(); err != nil {
		slog.ErrorContext(ctx, "error acking queue message", logging.ErrKey, err)
	}
}

// parseEvent decodes the queue message into a room hook event. A nil event
// (no error) means the envelope carried nothing to process.
func (h *RoomHookHandler) parseEvent(ctx context.Context, msg domain.QueueMessage) (*models.RoomHookEvent, error) {
	var message models.RoomHookEventMessage
	if err := json.Unmarshal(msg.Data(), &message); err != nil {
		return nil, err
	}
	return models.ParseRoomHookEnvelope(message.Envelope)
}

// handleRoomEvent routes events of the live-meeting queue.
func (h *RoomHookHandler) handleRoomEvent(ctx context.Context, event *models.RoomHookEvent) error {
	switch event.ID {
	case models.RoomEventUserJoined:
		return h.handleUserJoined(ctx, event)
	case models.RoomEventUserLeft:
		return h.handleUserLeft(ctx, event)
	case models.RoomEventMeetingEnded:
		return h.handleMeetingEnded(ctx, event)
	case models.RoomEventRecordingChanged:
		return h.hookRegistry.MarkRecordingAvailable(ctx, event.Attributes.Meeting.InternalMeetingID)
	default:
		slog.DebugContext(ctx, "unhandled room event, ignoring")
		return nil
	}
}

// handleRecordedEvent routes events of the recorded-hook queue.
func (h *RoomHookHandler) handleRecordedEvent(ctx context.Context, event *models.RoomHookEvent) error {
	switch event.ID {
	case models.RoomEventPublishEnded:
		return h.handleRecordingPublished(ctx, event)
	default:
		slog.DebugContext(ctx, "unhandled recorded event, ignoring")
		return nil
	}
}

// handleUserJoined marks the session running when a moderator joins;
// everyone else feeds the view tracking counter.
func (h *RoomHookHandler) handleUserJoined(ctx context.Context, event *models.RoomHookEvent) error {
	meeting := event.Attributes.Meeting
	user := event.Attributes.User
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", meeting.InternalMeetingID))

	if user.Role == models.RoomRoleModerator {
		slog.DebugContext(ctx, "moderator joined, marking session running")
		return h.sessionClient.UpdateSessionStatus(ctx, meeting.ExternalMeetingID, models.SessionStatusRunning)
	}

	userID := utils.CoalesceString(user.ExternalUserID, user.InternalUserID)
	return h.viewTracking.RecordJoin(ctx, meeting.InternalMeetingID, userID, event.Timestamp)
}

// handleUserLeft feeds the leave into the view tracking counter. A leave
// without a prior join is a no-op.
func (h *RoomHookHandler) handleUserLeft(ctx context.Context, event *models.RoomHookEvent) error {
	meeting := event.Attributes.Meeting
	user := event.Attributes.User
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", meeting.InternalMeetingID))

	userID := utils.CoalesceString(user.ExternalUserID, user.InternalUserID)
	handled, err := h.viewTracking.RecordLeave(ctx, meeting.InternalMeetingID, userID, meeting.ExternalMeetingID, event.Timestamp, false)
	if err != nil {
		return err
	}
	if !handled {
		slog.DebugContext(ctx, "user left without tracking record", "user_id", userID)
	}
	return nil
}

// handleMeetingEnded runs the teardown procedure as independent best-effort
// steps. Failures are logged, never returned: redelivering this message would
// re-run destructive cleanup against an already-cleaned-up meeting.
func (h *RoomHookHandler) handleMeetingEnded(ctx context.Context, event *models.RoomHookEvent) error {
	meeting := event.Attributes.Meeting
	ctx = logging.AppendCtx(ctx, slog.String("internal_meeting_id", meeting.InternalMeetingID))
	ctx = logging.AppendCtx(ctx, slog.String("session_uid", meeting.ExternalMeetingID))
	slog.InfoContext(ctx, "meeting ended, starting teardown")

	// Capture the hook record before teardown deletes it: it knows whether
	// the meeting was recorded and which endpoint it lived on.
	var haveRecord bool
	var endpoint string
	record, err := h.hookRegistry.GetHookRecord(ctx, meeting.InternalMeetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read hook record during teardown", logging.ErrKey, err)
	} else if record != nil {
		haveRecord = record.HaveRecord
		endpoint = record.Endpoint
	}

	if err := h.hookRegistry.DestroyHookByMeetingID(ctx, meeting.InternalMeetingID); err != nil {
		slog.ErrorContext(ctx, "failed to destroy room hook during teardown", logging.ErrKey, err)
	}

	if haveRecord {
		err := h.hookRegistry.RegisterHook(ctx, h.config.RecordedHookCallbackURL,
			meeting.ExternalMeetingID, meeting.InternalMeetingID, endpoint)
		if err != nil {
			slog.ErrorContext(ctx, "failed to register recorded hook during teardown", logging.ErrKey, err)
		}
	}

	h.flushActiveUsers(ctx, meeting, event.Timestamp)

	// The status update runs last and unconditionally so the session never
	// stays RUNNING after its meeting is gone.
	if err := h.sessionClient.UpdateSessionStatus(ctx, meeting.ExternalMeetingID, models.SessionStatusEnded); err != nil {
		slog.ErrorContext(ctx, "failed to mark session ended during teardown", logging.ErrKey, err)
	}

	return nil
}

// flushActiveUsers force-flushes every open tracking record of the meeting.
func (h *RoomHookHandler) flushActiveUsers(ctx context.Context, meeting models.RoomEventMeeting, timestamp int64) {
	userIDs, err := h.viewTracking.ActiveUsers(ctx, meeting.InternalMeetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list active users during teardown", logging.ErrKey, err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	functions := make([]func() error, 0, len(userIDs))
	for _, userID := range userIDs {
		functions = append(functions, func() error {
			_, err := h.viewTracking.RecordLeave(ctx, meeting.InternalMeetingID, userID,
				meeting.ExternalMeetingID, timestamp, true)
			return err
		})
	}

	errs := h.flushPool.RunAll(ctx, functions...)
	for _, err := range errs {
		slog.ErrorContext(ctx, "failed to flush tracking record during teardown", logging.ErrKey, err)
	}
	slog.InfoContext(ctx, "flushed active users during teardown",
		"users", len(userIDs),
		"failures", len(errs),
	)
}

// handleRecordingPublished attaches the published recording to the session
// and tears down the recording hook. The playback attach propagates its error
// so the queue redelivers the message; the hook destroy is best-effort.
func (h *RoomHookHandler) handleRecordingPublished(ctx context.Context, event *models.RoomHookEvent) error {
	meeting := event.Attributes.Meeting
	recording := event.Attributes.Recording
	ctx = logging.AppendCtx(ctx, slog.String("session_uid", meeting.ExternalMeetingID))

	playback := models.SessionPlayback{
		URL:      recording.Playback.Link,
		Format:   recording.Playback.Format,
		RecordID: utils.CoalesceString(recording.RecordID, event.Attributes.RecordID),
		Name:     recording.Name,
	}
	if playback.URL == "" {
		slog.WarnContext(ctx, "recording published without playback link, ignoring")
		return nil
	}

	if err := h.sessionClient.AttachPlayback(ctx, meeting.ExternalMeetingID, playback); err != nil {
		return err
	}
	slog.InfoContext(ctx, "attached recording playback", "record_id", playback.RecordID)

	if err := h.hookRegistry.DestroyHookByMeetingID(ctx, meeting.InternalMeetingID); err != nil {
		slog.ErrorContext(ctx, "failed to destroy recorded hook", logging.ErrKey, err)
	}
	return nil
}

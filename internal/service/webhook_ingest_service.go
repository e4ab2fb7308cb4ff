// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// WebhookIngestService accepts webhook posts from the control plane and
// republishes them onto the durable room-hook queues. Keeping ingress thin
// means the HTTP handler can always answer 200 and the queue consumers get
// at-least-once delivery.
type WebhookIngestService struct {
	publisher     domain.RoomHookEventPublisher
	sessionClient domain.SessionServiceClient
}

// NewWebhookIngestService creates a new WebhookIngestService.
func NewWebhookIngestService(
	publisher domain.RoomHookEventPublisher,
	sessionClient domain.SessionServiceClient,
) *WebhookIngestService {
	return &WebhookIngestService{
		publisher:     publisher,
		sessionClient: sessionClient,
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *WebhookIngestService) ServiceReady() bool {
	return s.publisher != nil && s.sessionClient != nil
}

// EnqueueRoomHookEnvelope publishes a webhook envelope to the live-meeting
// queue, or the recorded-hook queue when recorded is set. Envelopes without
// an event payload are dropped as no-ops.
func (s *WebhookIngestService) EnqueueRoomHookEnvelope(ctx context.Context, envelope models.RoomHookEnvelope, recorded bool) error {
	if envelope.Event == "" {
		slog.DebugContext(ctx, "webhook envelope without event payload, ignoring",
			"envelope_domain", envelope.Domain)
		return nil
	}

	subject := models.RoomHookEventSubject
	if recorded {
		subject = models.RoomRecordedHookEventSubject
	}

	return s.publisher.PublishRoomHookEvent(ctx, subject, models.RoomHookEventMessage{
		Envelope: envelope,
	})
}

// HandleScreenRecordingCompleted attaches an externally produced screen
// recording to the session, bypassing the webhook envelope path.
func (s *WebhookIngestService) HandleScreenRecordingCompleted(ctx context.Context, sessionUID string, playback models.SessionPlayback) error {
	if sessionUID == "" {
		return domain.NewValidationError("session UID is required")
	}
	if playback.URL == "" {
		return domain.NewValidationError("playback URL is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))
	if err := s.sessionClient.AttachPlayback(ctx, sessionUID, playback); err != nil {
		slog.ErrorContext(ctx, "failed to attach screen recording playback", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "attached screen recording playback", "playback_url", playback.URL)
	return nil
}

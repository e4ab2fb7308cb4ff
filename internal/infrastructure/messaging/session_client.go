// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// SessionClient implements [domain.SessionServiceClient] over NATS
// request/reply against the LMS sessions backend.
type SessionClient struct {
	natsConn INatsConn
}

// NewSessionClient creates a new session collaborator client.
func NewSessionClient(natsConn INatsConn) *SessionClient {
	return &SessionClient{
		natsConn: natsConn,
	}
}

// IsReady reports whether the underlying NATS connection is usable.
func (c *SessionClient) IsReady() bool {
	return c.natsConn != nil && c.natsConn.IsConnected()
}

// sessionReply is the generic reply envelope of the sessions backend.
type sessionReply struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// request performs one request/reply round trip and decodes the reply
// envelope. A nil result skips data decoding.
func (c *SessionClient) request(ctx context.Context, subject string, payload any, result any) error {
	if !c.IsReady() {
		return domain.NewUnavailableError("sessions backend connection is not available")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return domain.NewInternalError("failed to marshal sessions backend request", err)
	}

	msg, err := c.natsConn.RequestWithContext(ctx, subject, data)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return domain.NewUnavailableError("sessions backend is not responding", err)
		}
		slog.ErrorContext(ctx, "sessions backend request failed",
			logging.ErrKey, err, "subject", subject)
		return domain.NewInternalError("sessions backend request failed", err)
	}

	var reply sessionReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return domain.NewInternalError("failed to unmarshal sessions backend reply", err)
	}

	if !reply.Success {
		if reply.Error == "not_found" {
			return domain.NewNotFoundError(fmt.Sprintf("sessions backend: %s not found", subject))
		}
		return domain.NewInternalError(fmt.Sprintf("sessions backend error: %s", reply.Error))
	}

	if result != nil {
		if err := json.Unmarshal(reply.Data, result); err != nil {
			return domain.NewInternalError("failed to unmarshal sessions backend reply data", err)
		}
	}

	return nil
}

// GetSession fetches one session by UID.
func (c *SessionClient) GetSession(ctx context.Context, sessionUID string) (*models.Session, error) {
	var session models.Session
	err := c.request(ctx, models.SessionGetSubject, map[string]string{"uid": sessionUID}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionStatus transitions a session's lifecycle status.
func (c *SessionClient) UpdateSessionStatus(ctx context.Context, sessionUID string, status models.SessionStatus) error {
	req := models.SessionStatusUpdateRequest{
		SessionUID: sessionUID,
		Status:     status,
	}
	return c.request(ctx, models.SessionUpdateStatusSubject, req, nil)
}

// AttachPlayback attaches recording playback metadata to a session.
func (c *SessionClient) AttachPlayback(ctx context.Context, sessionUID string, playback models.SessionPlayback) error {
	req := models.SessionAttachPlaybackRequest{
		SessionUID: sessionUID,
		Playback:   playback,
	}
	return c.request(ctx, models.SessionAttachPlaybackSubject, req, nil)
}

// ListParticipants lists the users enrolled in the session's course.
func (c *SessionClient) ListParticipants(ctx context.Context, sessionUID string) ([]models.SessionParticipant, error) {
	var participants []models.SessionParticipant
	err := c.request(ctx, models.SessionListParticipantsSubject, map[string]string{"uid": sessionUID}, &participants)
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// GetInstructorBranding fetches an instructor's room branding settings.
func (c *SessionClient) GetInstructorBranding(ctx context.Context, instructorUID string) (*models.BrandingSettings, error) {
	var branding models.BrandingSettings
	err := c.request(ctx, models.SessionGetBrandingSubject, map[string]string{"uid": instructorUID}, &branding)
	if err != nil {
		return nil, err
	}
	return &branding, nil
}

// IsCourseInstructor reports whether the user teaches the given course.
func (c *SessionClient) IsCourseInstructor(ctx context.Context, userUID, courseUID string) (bool, error) {
	req := models.SessionCourseInstructorRequest{
		UserUID:   userUID,
		CourseUID: courseUID,
	}
	var resp models.SessionCourseInstructorResponse
	err := c.request(ctx, models.SessionIsCourseInstructorSubject, req, &resp)
	if err != nil {
		return false, err
	}
	return resp.IsInstructor, nil
}

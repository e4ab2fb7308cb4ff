// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// SessionServiceClient is the client for the LMS sessions backend, which owns
// the session/course/user data. It is reached over NATS request/reply.
type SessionServiceClient interface {
	GetSession(ctx context.Context, sessionUID string) (*models.Session, error)
	UpdateSessionStatus(ctx context.Context, sessionUID string, status models.SessionStatus) error
	AttachPlayback(ctx context.Context, sessionUID string, playback models.SessionPlayback) error
	ListParticipants(ctx context.Context, sessionUID string) ([]models.SessionParticipant, error)
	GetInstructorBranding(ctx context.Context, instructorUID string) (*models.BrandingSettings, error)
	IsCourseInstructor(ctx context.Context, userUID, courseUID string) (bool, error)
}

// EmailService sends notification emails for session lifecycle events.
type EmailService interface {
	SendSessionStarted(ctx context.Context, notice models.SessionStartedNotice) error
}

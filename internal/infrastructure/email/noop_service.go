// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// Ensure NoOpService implements domain.EmailService
var _ domain.EmailService = (*NoOpService)(nil)

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendSessionStarted logs the notice but doesn't send an email
func (s *NoOpService) SendSessionStarted(ctx context.Context, notice models.SessionStartedNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("session_uid", notice.SessionUID))

	slog.DebugContext(ctx, "email service disabled, skipping session started email")
	return nil
}

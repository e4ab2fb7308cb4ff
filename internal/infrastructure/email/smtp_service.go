// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

// Package email sends participant notifications over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates Templates
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// Ensure SMTPService implements domain.EmailService
var _ domain.EmailService = (*SMTPService)(nil)

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendSessionStarted notifies one participant that their live session is running
func (s *SMTPService) SendSessionStarted(ctx context.Context, notice models.SessionStartedNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("session_uid", notice.SessionUID))

	// Generate email content from templates
	htmlContent, err := renderTemplate(s.templates.SessionStarted.HTML, notice)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.SessionStarted.Text, notice)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render text template: %w", err)
	}

	// Build and send the email
	subject := fmt.Sprintf("Live now: %s", notice.SessionTitle)
	message := buildEmailMessage(notice.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(notice.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send session started email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "session started email sent successfully")
	return nil
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/pkg/concurrent"
	"github.com/openlms/live-session-service/pkg/constants"
	"github.com/openlms/live-session-service/pkg/utils"
)

// notifyWorkerCount bounds the parallelism of the session-started email
// fan-out.
const notifyWorkerCount = 10

// JoinConfig holds the static configuration of the join orchestrator.
type JoinConfig struct {
	// HookCallbackURL is the public URL the control plane POSTs live-meeting
	// webhook envelopes to.
	HookCallbackURL string
	// LogoutURL is where the meeting room sends users when they leave.
	LogoutURL string
	// JoinPageBaseURL is the LMS frontend page linked from notification
	// emails; the session UID is appended.
	JoinPageBaseURL string
	// DefaultBranding holds the system-default room appearance; instructor
	// branding is overlaid on top of it.
	DefaultBranding models.BrandingSettings
	// MaxParticipants of zero leaves the endpoint default in place.
	MaxParticipants int
}

// JoinService is the meeting join orchestrator: it creates the meeting room
// on demand, decides moderator vs. viewer permission and issues a signed join
// URL.
type JoinService struct {
	config        JoinConfig
	sessionClient domain.SessionServiceClient
	roomClient    domain.RoomClient
	hookRegistry  *HookRegistryService
	emailService  domain.EmailService
	notifyPool    *concurrent.WorkerPool
}

// NewJoinService creates a new JoinService.
func NewJoinService(
	config JoinConfig,
	sessionClient domain.SessionServiceClient,
	roomClient domain.RoomClient,
	hookRegistry *HookRegistryService,
	emailService domain.EmailService,
) *JoinService {
	return &JoinService{
		config:        config,
		sessionClient: sessionClient,
		roomClient:    roomClient,
		hookRegistry:  hookRegistry,
		emailService:  emailService,
		notifyPool:    concurrent.NewWorkerPool(notifyWorkerCount),
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *JoinService) ServiceReady() bool {
	return s.sessionClient != nil &&
		s.roomClient != nil &&
		s.hookRegistry != nil &&
		s.emailService != nil
}

// GetJoinURL resolves the user's permission on the session, creates the
// meeting room on demand and returns a signed join URL. Failures carry the
// reason codes of the join API contract.
func (s *JoinService) GetJoinURL(ctx context.Context, user models.User, sessionUID, accessCode string) (string, error) {
	ctx = logging.AppendCtx(ctx, slog.String("session_uid", sessionUID))
	ctx = logging.AppendCtx(ctx, slog.String("user_uid", user.UID))

	session, err := s.sessionClient.GetSession(ctx, sessionUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return "", domain.NewNotFoundError("session not found", err).
				WithCode(constants.ReasonMeetingNotFound)
		}
		return "", err
	}

	if !session.IsWebinar() {
		return "", domain.NewForbiddenError("session is not a live webinar").
			WithCode(constants.ReasonPermissionDenied)
	}
	if session.Status == models.SessionStatusEnded {
		return "", domain.NewValidationError("session has already ended").
			WithCode(constants.ReasonMeetingNotValid)
	}

	moderator, err := s.isModerator(ctx, user, session)
	if err != nil {
		return "", err
	}

	if !moderator && session.AccessCode != "" && accessCode != session.AccessCode {
		return "", domain.NewForbiddenError("access code does not match").
			WithCode(constants.ReasonAccessCodeNotMatch)
	}

	info, err := s.hookRegistry.ResolveMeeting(ctx, session.UID)
	if err != nil {
		return "", err
	}
	if info == nil {
		if !moderator && !session.AnyUserCanStart {
			return "", domain.NewNotFoundError("meeting has not been started yet").
				WithCode(constants.ReasonMeetingNotFound)
		}
		info, err = s.startMeeting(ctx, session)
		if err != nil {
			return "", err
		}
	}

	if err := s.hookRegistry.RegisterHook(ctx, s.config.HookCallbackURL, session.UID, info.InternalMeetingID, info.Endpoint); err != nil {
		return "", err
	}

	password := info.AttendeePW
	if moderator {
		password = info.ModeratorPW
	}
	if password == "" {
		return "", domain.NewValidationError("meeting has no password for the user's role").
			WithCode(constants.ReasonMeetingNotValid)
	}

	joinURL, err := s.roomClient.JoinURL(ctx, &models.JoinRequest{
		MeetingID: session.UID,
		FullName:  user.FullName,
		UserID:    user.UID,
		Password:  password,
		Endpoint:  info.Endpoint,
	})
	if err != nil {
		return "", err
	}
	if joinURL == "" {
		return "", domain.NewInternalError("control plane returned no join URL").
			WithCode(constants.ReasonJoinURLNotFound)
	}

	slog.InfoContext(ctx, "issued join URL", "moderator", moderator)
	return joinURL, nil
}

// isModerator decides the user's role on the session: the assigned
// instructor, admin-tier users and the course's instructors moderate,
// everyone else views.
func (s *JoinService) isModerator(ctx context.Context, user models.User, session *models.Session) (bool, error) {
	if user.UID == session.InstructorUID || user.IsAdmin() {
		return true, nil
	}

	isInstructor, err := s.sessionClient.IsCourseInstructor(ctx, user.UID, session.CourseUID)
	if err != nil {
		return false, err
	}
	return isInstructor, nil
}

// startMeeting creates the meeting room with the instructor's branding and
// fans out session-started notifications.
func (s *JoinService) startMeeting(ctx context.Context, session *models.Session) (*models.MeetingInfo, error) {
	branding := s.config.DefaultBranding
	instructorBranding, err := s.sessionClient.GetInstructorBranding(ctx, session.InstructorUID)
	if err != nil {
		// Branding is cosmetic; fall back to the defaults.
		slog.WarnContext(ctx, "failed to load instructor branding, using defaults",
			logging.ErrKey, err, "instructor_uid", session.InstructorUID)
	} else if instructorBranding != nil {
		branding = branding.Merge(*instructorBranding)
	}

	info, err := s.roomClient.CreateMeeting(ctx, &models.CreateMeetingRequest{
		MeetingID:       session.UID,
		Name:            session.Title,
		Welcome:         branding.WelcomeText,
		LogoURL:         branding.LogoURL,
		BannerText:      branding.BannerText,
		BannerColor:     branding.PrimaryColor,
		LogoutURL:       s.config.LogoutURL,
		Record:          true,
		MaxParticipants: s.config.MaxParticipants,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "created meeting room",
		"internal_meeting_id", info.InternalMeetingID,
		"endpoint", info.Endpoint,
	)

	s.notifySessionStarted(ctx, session)
	return info, nil
}

// notifySessionStarted emails every enrolled participant that the session is
// live. The broadcast is best-effort: per-participant failures are logged,
// never propagated.
func (s *JoinService) notifySessionStarted(ctx context.Context, session *models.Session) {
	participants, err := s.sessionClient.ListParticipants(ctx, session.UID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list session participants for notification",
			logging.ErrKey, err)
		return
	}
	if len(participants) == 0 {
		return
	}

	instructorName := utils.CoalesceString(session.InstructorName, "your instructor")
	joinPageURL := fmt.Sprintf("%s/%s", s.config.JoinPageBaseURL, session.UID)

	functions := make([]func() error, 0, len(participants))
	for _, participant := range participants {
		notice := models.SessionStartedNotice{
			RecipientEmail: participant.Email,
			RecipientName:  participant.FullName,
			SessionUID:     session.UID,
			SessionTitle:   session.Title,
			InstructorName: instructorName,
			JoinPageURL:    joinPageURL,
		}
		functions = append(functions, func() error {
			return s.emailService.SendSessionStarted(ctx, notice)
		})
	}

	errs := s.notifyPool.RunAll(ctx, functions...)
	for _, err := range errs {
		slog.WarnContext(ctx, "session started notification failed", logging.ErrKey, err)
	}
	slog.InfoContext(ctx, "sent session started notifications",
		"participants", len(participants),
		"failures", len(errs),
	)
}

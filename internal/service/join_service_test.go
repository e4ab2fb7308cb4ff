// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/mocks"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/pkg/constants"
)

type joinFixture struct {
	svc           *JoinService
	sessionClient *mocks.MockSessionServiceClient
	roomClient    *mocks.MockRoomClient
	hookRepo      *mocks.MockHookRecordRepository
	emailService  *mocks.MockEmailService
}

func newJoinFixture() *joinFixture {
	sessionClient := &mocks.MockSessionServiceClient{}
	roomClient := &mocks.MockRoomClient{}
	hookRepo := &mocks.MockHookRecordRepository{}
	emailService := &mocks.MockEmailService{}

	config := JoinConfig{
		HookCallbackURL: "https://lms.example.org/webhooks/room",
		LogoutURL:       "https://lms.example.org/sessions",
		JoinPageBaseURL: "https://lms.example.org/sessions",
		DefaultBranding: models.BrandingSettings{WelcomeText: "Welcome!"},
	}
	hookRegistry := NewHookRegistryService(hookRepo, roomClient)

	return &joinFixture{
		svc:           NewJoinService(config, sessionClient, roomClient, hookRegistry, emailService),
		sessionClient: sessionClient,
		roomClient:    roomClient,
		hookRepo:      hookRepo,
		emailService:  emailService,
	}
}

func webinarSession() *models.Session {
	return &models.Session{
		UID:            "session-1",
		Title:          "Weekly lecture",
		Kind:           models.SessionKindWebinar,
		Status:         models.SessionStatusScheduled,
		CourseUID:      "course-1",
		InstructorUID:  "instructor-1",
		InstructorName: "Grace Hopper",
	}
}

func instructorUser() models.User {
	return models.User{UID: "instructor-1", FullName: "Grace Hopper", Email: "grace@example.com"}
}

func studentUser() models.User {
	return models.User{UID: "student-1", FullName: "Ada Lovelace", Email: "ada@example.com"}
}

func runningMeetingInfo() *models.MeetingInfo {
	return &models.MeetingInfo{
		MeetingID:         "session-1",
		InternalMeetingID: "abc123-160",
		AttendeePW:        "ap",
		ModeratorPW:       "mp",
		Running:           true,
		Endpoint:          "https://rooms-1.example.org",
	}
}

func TestGetJoinURLInstructorStartsMeeting(t *testing.T) {
	f := newJoinFixture()

	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(webinarSession(), nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(nil, nil)
	f.sessionClient.On("GetInstructorBranding", mock.Anything, "instructor-1").Return(
		&models.BrandingSettings{LogoURL: "https://lms.example.org/logo.png"}, nil)
	f.roomClient.On("CreateMeeting", mock.Anything, mock.MatchedBy(func(req *models.CreateMeetingRequest) bool {
		return req.MeetingID == "session-1" &&
			req.Name == "Weekly lecture" &&
			req.Welcome == "Welcome!" &&
			req.LogoURL == "https://lms.example.org/logo.png" &&
			req.Record
	})).Return(runningMeetingInfo(), nil)
	f.sessionClient.On("ListParticipants", mock.Anything, "session-1").Return(
		[]models.SessionParticipant{
			{UserUID: "student-1", FullName: "Ada Lovelace", Email: "ada@example.com"},
			{UserUID: "student-2", FullName: "Charles Babbage", Email: "charles@example.com"},
		}, nil)
	f.emailService.On("SendSessionStarted", mock.Anything, mock.Anything).Return(nil).Twice()
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(nil, domain.NewNotFoundError("missing"))
	f.roomClient.On("CreateHook", mock.Anything, "https://lms.example.org/webhooks/room",
		"session-1", "https://rooms-1.example.org", false).Return(
		&models.HookCreateResponse{ReturnCode: models.ReturnCodeSuccess, HookID: "42"}, nil)
	f.hookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.MatchedBy(func(req *models.JoinRequest) bool {
		return req.Password == "mp" && req.FullName == "Grace Hopper"
	})).Return("https://rooms-1.example.org/client/join?token=abc", nil)

	joinURL, err := f.svc.GetJoinURL(context.Background(), instructorUser(), "session-1", "")
	require.NoError(t, err)
	assert.Equal(t, "https://rooms-1.example.org/client/join?token=abc", joinURL)

	f.emailService.AssertExpectations(t)
	f.roomClient.AssertExpectations(t)
}

func TestGetJoinURLViewerJoinsRunningMeeting(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.Status = models.SessionStatusRunning
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.sessionClient.On("IsCourseInstructor", mock.Anything, "student-1", "course-1").Return(false, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(
		runningMeetingInfo(), nil)
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(
		&models.HookRecord{InternalMeetingID: "abc123-160", HookID: "42"}, nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.MatchedBy(func(req *models.JoinRequest) bool {
		return req.Password == "ap" && req.UserID == "student-1"
	})).Return("https://rooms-1.example.org/client/join?token=xyz", nil)

	joinURL, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "")
	require.NoError(t, err)
	assert.Equal(t, "https://rooms-1.example.org/client/join?token=xyz", joinURL)

	f.roomClient.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
}

func TestGetJoinURLSessionNotFound(t *testing.T) {
	f := newJoinFixture()

	f.sessionClient.On("GetSession", mock.Anything, "missing").Return(nil, domain.NewNotFoundError("no such session"))

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "missing", "")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	assert.Equal(t, constants.ReasonMeetingNotFound, domain.GetErrorCode(err))
}

func TestGetJoinURLNonWebinarSession(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.Kind = "video"
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "")
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	assert.Equal(t, constants.ReasonPermissionDenied, domain.GetErrorCode(err))
}

func TestGetJoinURLEndedSession(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.Status = models.SessionStatusEnded
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)

	_, err := f.svc.GetJoinURL(context.Background(), instructorUser(), "session-1", "")
	assert.Equal(t, constants.ReasonMeetingNotValid, domain.GetErrorCode(err))
}

func TestGetJoinURLAccessCodeMismatch(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.AccessCode = "1234"
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.sessionClient.On("IsCourseInstructor", mock.Anything, "student-1", "course-1").Return(false, nil)

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "9999")
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	assert.Equal(t, constants.ReasonAccessCodeNotMatch, domain.GetErrorCode(err))
}

func TestGetJoinURLAccessCodeNotRequiredForModerator(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.AccessCode = "1234"
	session.Status = models.SessionStatusRunning
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(
		runningMeetingInfo(), nil)
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(
		&models.HookRecord{InternalMeetingID: "abc123-160", HookID: "42"}, nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.Anything).Return("https://rooms-1.example.org/join", nil)

	_, err := f.svc.GetJoinURL(context.Background(), instructorUser(), "session-1", "")
	require.NoError(t, err)
}

func TestGetJoinURLViewerCannotStartMeeting(t *testing.T) {
	f := newJoinFixture()

	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(webinarSession(), nil)
	f.sessionClient.On("IsCourseInstructor", mock.Anything, "student-1", "course-1").Return(false, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(nil, nil)

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	assert.Equal(t, constants.ReasonMeetingNotFound, domain.GetErrorCode(err))
	f.roomClient.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
}

func TestGetJoinURLAnyUserCanStart(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.AnyUserCanStart = true
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.sessionClient.On("IsCourseInstructor", mock.Anything, "student-1", "course-1").Return(false, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(nil, nil)
	f.sessionClient.On("GetInstructorBranding", mock.Anything, "instructor-1").Return(
		&models.BrandingSettings{}, nil)
	f.roomClient.On("CreateMeeting", mock.Anything, mock.Anything).Return(runningMeetingInfo(), nil)
	f.sessionClient.On("ListParticipants", mock.Anything, "session-1").Return(
		[]models.SessionParticipant{}, nil)
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(nil, domain.NewNotFoundError("missing"))
	f.roomClient.On("CreateHook", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		&models.HookCreateResponse{ReturnCode: models.ReturnCodeSuccess, HookID: "42"}, nil)
	f.hookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.MatchedBy(func(req *models.JoinRequest) bool {
		return req.Password == "ap"
	})).Return("https://rooms-1.example.org/join", nil)

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "")
	require.NoError(t, err)
}

func TestGetJoinURLMissingPassword(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.Status = models.SessionStatusRunning
	info := runningMeetingInfo()
	info.AttendeePW = ""
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.sessionClient.On("IsCourseInstructor", mock.Anything, "student-1", "course-1").Return(false, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(info, nil)
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(
		&models.HookRecord{InternalMeetingID: "abc123-160", HookID: "42"}, nil)

	_, err := f.svc.GetJoinURL(context.Background(), studentUser(), "session-1", "")
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	assert.Equal(t, constants.ReasonMeetingNotValid, domain.GetErrorCode(err))
}

func TestGetJoinURLEmptyJoinURL(t *testing.T) {
	f := newJoinFixture()

	session := webinarSession()
	session.Status = models.SessionStatusRunning
	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(session, nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(
		runningMeetingInfo(), nil)
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(
		&models.HookRecord{InternalMeetingID: "abc123-160", HookID: "42"}, nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.Anything).Return("", nil)

	_, err := f.svc.GetJoinURL(context.Background(), instructorUser(), "session-1", "")
	assert.Equal(t, constants.ReasonJoinURLNotFound, domain.GetErrorCode(err))
}

func TestGetJoinURLNotificationFailuresDoNotBlockJoin(t *testing.T) {
	f := newJoinFixture()

	f.sessionClient.On("GetSession", mock.Anything, "session-1").Return(webinarSession(), nil)
	f.roomClient.On("Endpoints").Return([]string{"https://rooms-1.example.org"})
	f.roomClient.On("GetMeetingInfo", mock.Anything, "session-1", "https://rooms-1.example.org").Return(nil, nil)
	f.sessionClient.On("GetInstructorBranding", mock.Anything, "instructor-1").Return(
		&models.BrandingSettings{}, nil)
	f.roomClient.On("CreateMeeting", mock.Anything, mock.Anything).Return(runningMeetingInfo(), nil)
	f.sessionClient.On("ListParticipants", mock.Anything, "session-1").Return(
		[]models.SessionParticipant{
			{UserUID: "student-1", FullName: "Ada Lovelace", Email: "ada@example.com"},
		}, nil)
	f.emailService.On("SendSessionStarted", mock.Anything, mock.Anything).Return(
		errors.New("smtp unreachable"))
	f.hookRepo.On("Get", mock.Anything, "abc123-160").Return(nil, domain.NewNotFoundError("missing"))
	f.roomClient.On("CreateHook", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		&models.HookCreateResponse{ReturnCode: models.ReturnCodeSuccess, HookID: "42"}, nil)
	f.hookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.roomClient.On("JoinURL", mock.Anything, mock.Anything).Return("https://rooms-1.example.org/join", nil)

	_, err := f.svc.GetJoinURL(context.Background(), instructorUser(), "session-1", "")
	require.NoError(t, err)
}

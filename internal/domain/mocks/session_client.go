// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// MockSessionServiceClient implements domain.SessionServiceClient for testing
type MockSessionServiceClient struct {
	mock.Mock
}

func (m *MockSessionServiceClient) GetSession(ctx context.Context, sessionUID string) (*models.Session, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionServiceClient) UpdateSessionStatus(ctx context.Context, sessionUID string, status models.SessionStatus) error {
	args := m.Called(ctx, sessionUID, status)
	return args.Error(0)
}

func (m *MockSessionServiceClient) AttachPlayback(ctx context.Context, sessionUID string, playback models.SessionPlayback) error {
	args := m.Called(ctx, sessionUID, playback)
	return args.Error(0)
}

func (m *MockSessionServiceClient) ListParticipants(ctx context.Context, sessionUID string) ([]models.SessionParticipant, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionParticipant), args.Error(1)
}

func (m *MockSessionServiceClient) GetInstructorBranding(ctx context.Context, instructorUID string) (*models.BrandingSettings, error) {
	args := m.Called(ctx, instructorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BrandingSettings), args.Error(1)
}

func (m *MockSessionServiceClient) IsCourseInstructor(ctx context.Context, userUID, courseUID string) (bool, error) {
	args := m.Called(ctx, userUID, courseUID)
	return args.Bool(0), args.Error(1)
}

// MockEmailService implements domain.EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSessionStarted(ctx context.Context, notice models.SessionStartedNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

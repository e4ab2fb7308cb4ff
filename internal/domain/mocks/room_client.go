// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// MockRoomClient implements domain.RoomClient for testing
type MockRoomClient struct {
	mock.Mock
}

func (m *MockRoomClient) Endpoints() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockRoomClient) CreateMeeting(ctx context.Context, req *models.CreateMeetingRequest) (*models.MeetingInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingInfo), args.Error(1)
}

func (m *MockRoomClient) GetMeetingInfo(ctx context.Context, meetingID, endpoint string) (*models.MeetingInfo, error) {
	args := m.Called(ctx, meetingID, endpoint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingInfo), args.Error(1)
}

func (m *MockRoomClient) CreateHook(ctx context.Context, callbackURL, meetingID, endpoint string, getRaw bool) (*models.HookCreateResponse, error) {
	args := m.Called(ctx, callbackURL, meetingID, endpoint, getRaw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HookCreateResponse), args.Error(1)
}

func (m *MockRoomClient) DestroyHook(ctx context.Context, hookID, endpoint string) error {
	args := m.Called(ctx, hookID, endpoint)
	return args.Error(0)
}

func (m *MockRoomClient) JoinURL(ctx context.Context, req *models.JoinRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// MockRoomHookEventPublisher implements domain.RoomHookEventPublisher for testing
type MockRoomHookEventPublisher struct {
	mock.Mock
}

func (m *MockRoomHookEventPublisher) PublishRoomHookEvent(ctx context.Context, subject string, message models.RoomHookEventMessage) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

// MockQueueMessage implements domain.QueueMessage for testing
type MockQueueMessage struct {
	mock.Mock
}

func (m *MockQueueMessage) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockQueueMessage) Data() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockQueueMessage) Ack() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockQueueMessage) NakWithDelay(delay time.Duration) error {
	args := m.Called(delay)
	return args.Error(0)
}

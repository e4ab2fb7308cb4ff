// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// MockHookRecordRepository implements domain.HookRecordRepository for testing
type MockHookRecordRepository struct {
	mock.Mock
}

func (m *MockHookRecordRepository) Get(ctx context.Context, internalMeetingID string) (*models.HookRecord, error) {
	args := m.Called(ctx, internalMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HookRecord), args.Error(1)
}

func (m *MockHookRecordRepository) GetWithRevision(ctx context.Context, internalMeetingID string) (*models.HookRecord, uint64, error) {
	args := m.Called(ctx, internalMeetingID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.HookRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockHookRecordRepository) Exists(ctx context.Context, internalMeetingID string) (bool, error) {
	args := m.Called(ctx, internalMeetingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHookRecordRepository) Save(ctx context.Context, record *models.HookRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHookRecordRepository) Update(ctx context.Context, record *models.HookRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockHookRecordRepository) Delete(ctx context.Context, internalMeetingID string) error {
	args := m.Called(ctx, internalMeetingID)
	return args.Error(0)
}

// MockViewTrackingRecordRepository implements domain.ViewTrackingRecordRepository for testing
type MockViewTrackingRecordRepository struct {
	mock.Mock
}

func (m *MockViewTrackingRecordRepository) Get(ctx context.Context, internalMeetingID, userID string) (*models.ViewTrackingRecord, uint64, error) {
	args := m.Called(ctx, internalMeetingID, userID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.ViewTrackingRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockViewTrackingRecordRepository) Save(ctx context.Context, record *models.ViewTrackingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockViewTrackingRecordRepository) Update(ctx context.Context, record *models.ViewTrackingRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockViewTrackingRecordRepository) Delete(ctx context.Context, internalMeetingID, userID string) error {
	args := m.Called(ctx, internalMeetingID, userID)
	return args.Error(0)
}

func (m *MockViewTrackingRecordRepository) ListByMeeting(ctx context.Context, internalMeetingID string) ([]*models.ViewTrackingRecord, error) {
	args := m.Called(ctx, internalMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ViewTrackingRecord), args.Error(1)
}

// MockViewTrackingEntryRepository implements domain.ViewTrackingEntryRepository for testing
type MockViewTrackingEntryRepository struct {
	mock.Mock
}

func (m *MockViewTrackingEntryRepository) Create(ctx context.Context, entry *models.ViewTrackingEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockViewTrackingEntryRepository) ListBySession(ctx context.Context, sessionUID string) ([]*models.ViewTrackingEntry, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ViewTrackingEntry), args.Error(1)
}

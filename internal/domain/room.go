// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// RoomClient is the conferencing control-plane client. The control plane is a
// pool of interchangeable endpoints; operations that target an existing
// meeting take the endpoint the meeting lives on.
type RoomClient interface {
	// Endpoints returns the configured endpoint base URLs in priority order.
	Endpoints() []string

	// CreateMeeting creates a meeting on the default endpoint.
	CreateMeeting(ctx context.Context, req *models.CreateMeetingRequest) (*models.MeetingInfo, error)

	// GetMeetingInfo returns nil (without error) when the endpoint does not
	// know the meeting.
	GetMeetingInfo(ctx context.Context, meetingID, endpoint string) (*models.MeetingInfo, error)

	// CreateHook subscribes callbackURL to the lifecycle events of meetingID
	// on the given endpoint.
	CreateHook(ctx context.Context, callbackURL, meetingID, endpoint string, getRaw bool) (*models.HookCreateResponse, error)

	// DestroyHook removes a webhook subscription from the given endpoint.
	DestroyHook(ctx context.Context, hookID, endpoint string) error

	// JoinURL issues a signed join URL for the given user and meeting.
	JoinURL(ctx context.Context, req *models.JoinRequest) (string, error)
}

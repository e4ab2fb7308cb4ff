// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

// Control-plane API return codes.
const (
	ReturnCodeSuccess = "SUCCESS"
	ReturnCodeFailed  = "FAILED"
)

// Meeting room roles as reported by the control plane.
const (
	RoomRoleModerator = "MODERATOR"
	RoomRoleViewer    = "VIEWER"
)

// CreateMeetingRequest is the request to create a meeting room on the
// control plane. MeetingID is the external meeting ID (the session UID).
type CreateMeetingRequest struct {
	MeetingID   string
	Name        string
	Welcome     string
	LogoURL     string
	BannerText  string
	BannerColor string
	LogoutURL   string
	Record      bool
	// MaxParticipants of zero leaves the endpoint default in place.
	MaxParticipants int
}

// MeetingInfo is the control plane's state of a meeting room.
type MeetingInfo struct {
	MeetingID         string
	InternalMeetingID string
	MeetingName       string
	AttendeePW        string
	ModeratorPW       string
	Running           bool
	Recording         bool
	HasUserJoined     bool
	ParticipantCount  int
	ModeratorCount    int
	// Endpoint is the base URL of the endpoint that reported the meeting.
	Endpoint string
}

// HookCreateResponse is the control plane's response to a hook subscription.
type HookCreateResponse struct {
	ReturnCode      string
	HookID          string
	PermanentHook   bool
	RawData         bool
	MessageKey      string
	Message         string
}

// JoinRequest is the request for a signed join URL.
type JoinRequest struct {
	MeetingID string
	FullName  string
	UserID    string
	Password  string
	Endpoint  string
}

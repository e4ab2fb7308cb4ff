// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

// HookRecord is the persisted webhook subscription for a single meeting.
// There is at most one record per internal meeting ID.
type HookRecord struct {
	InternalMeetingID string `json:"internal_meeting_id"`
	HookID            string `json:"hook_id,omitempty"`
	Endpoint          string `json:"endpoint,omitempty"`
	// HaveRecord is set when the control plane reported that the meeting is
	// being recorded. It decides whether meeting teardown re-registers a hook
	// for recording-publication events.
	HaveRecord bool `json:"have_record"`
}

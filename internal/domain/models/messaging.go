// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects for the durable room-hook queues.
const (
	// RoomHookEventSubject carries live-meeting webhook envelopes
	// (user-joined, user-left, meeting-ended, meeting-recording-changed).
	RoomHookEventSubject = "lms.webhook.room.event"

	// RoomRecordedHookEventSubject carries recording-publication webhook
	// envelopes (rap-publish-ended) from hooks registered after teardown.
	RoomRecordedHookEventSubject = "lms.webhook.room.recorded"
)

// NATS request/reply subjects served by the LMS sessions backend.
const (
	SessionGetSubject                = "lms.sessions-api.get_session"
	SessionUpdateStatusSubject       = "lms.sessions-api.update_status"
	SessionAttachPlaybackSubject     = "lms.sessions-api.attach_playback"
	SessionListParticipantsSubject   = "lms.sessions-api.list_participants"
	SessionGetBrandingSubject        = "lms.sessions-api.get_branding"
	SessionIsCourseInstructorSubject = "lms.sessions-api.is_course_instructor"
)

// RoomHookEventMessage is the queue message wrapping a webhook envelope for
// asynchronous processing.
type RoomHookEventMessage struct {
	Envelope   RoomHookEnvelope `json:"envelope"`
	ReceivedAt time.Time        `json:"received_at"`
}

// SessionStatusUpdateRequest is the request body for SessionUpdateStatusSubject.
type SessionStatusUpdateRequest struct {
	SessionUID string        `json:"session_uid"`
	Status     SessionStatus `json:"status"`
}

// SessionAttachPlaybackRequest is the request body for SessionAttachPlaybackSubject.
type SessionAttachPlaybackRequest struct {
	SessionUID string          `json:"session_uid"`
	Playback   SessionPlayback `json:"playback"`
}

// SessionCourseInstructorRequest is the request body for SessionIsCourseInstructorSubject.
type SessionCourseInstructorRequest struct {
	UserUID   string `json:"user_uid"`
	CourseUID string `json:"course_uid"`
}

// SessionCourseInstructorResponse is the reply body for SessionIsCourseInstructorSubject.
type SessionCourseInstructorResponse struct {
	IsInstructor bool `json:"is_instructor"`
}

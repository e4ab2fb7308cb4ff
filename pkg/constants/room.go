// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package constants

// Reason codes returned to join-URL API clients. These are part of the
// external contract with the LMS frontend.
const (
	ReasonMeetingNotFound    = "meetingNotFound"
	ReasonAccessCodeNotMatch = "accessCodeNotMatch"
	ReasonPermissionDenied   = "permissionDenied"
	ReasonMeetingNotValid    = "meetingNotValid"
	ReasonJoinURLNotFound    = "joinUrlNotFound"
)

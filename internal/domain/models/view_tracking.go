// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"math"
	"time"
)

// DurationUnknown is stored on a view tracking entry when a watch duration
// cannot be computed from the join/leave timestamps.
const DurationUnknown int64 = -1

// ViewTrackingRecord is the live join counter for one user in one meeting.
// TimeJoined is the epoch-millisecond timestamp of the user's first join.
// Counter counts the user's concurrent connections beyond the first one: it
// starts at 0 on first join and is incremented for every additional join, so
// a record is flushed once the counter drops below 1.
type ViewTrackingRecord struct {
	InternalMeetingID string `json:"internal_meeting_id"`
	UserID            string `json:"user_id"`
	TimeJoined        int64  `json:"time_joined"`
	Counter           int    `json:"counter"`
}

// ViewTrackingEntry is the durable view record appended when a user finally
// leaves a meeting (or the meeting ends). Timestamps are epoch milliseconds;
// Duration is whole seconds, DurationUnknown when not computable.
type ViewTrackingEntry struct {
	UID               string    `json:"uid"`
	SessionUID        string    `json:"session_uid"`
	UserID            string    `json:"user_id"`
	InternalMeetingID string    `json:"internal_meeting_id"`
	TimeJoined        int64     `json:"time_joined"`
	TimeLeft          int64     `json:"time_left"`
	Duration          int64     `json:"duration"`
	CreatedAt         time.Time `json:"created_at"`
}

// ViewDurationSeconds computes the watch duration in whole seconds from
// epoch-millisecond join/leave timestamps. Either timestamp missing (zero or
// negative) yields DurationUnknown.
func ViewDurationSeconds(timeJoined, timeLeft int64) int64 {
	if timeJoined <= 0 || timeLeft <= 0 {
		return DurationUnknown
	}
	return int64(math.Round(float64(timeLeft-timeJoined) / 1000.0))
}

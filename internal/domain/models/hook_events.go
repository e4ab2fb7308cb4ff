// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Room hook event IDs delivered by the control plane.
const (
	RoomEventUserJoined       = "user-joined"
	RoomEventUserLeft         = "user-left"
	RoomEventMeetingEnded     = "meeting-ended"
	RoomEventRecordingChanged = "meeting-recording-changed"
	RoomEventPublishEnded     = "rap-publish-ended"
)

// RoomHookEnvelope is the wire format the control plane POSTs to hook
// callbacks: Event is a JSON array string of event objects, Timestamp is the
// send time in epoch milliseconds as a string.
type RoomHookEnvelope struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Domain    string `json:"domain,omitempty"`
}

// RoomEventMeeting identifies the meeting an event refers to. The external
// meeting ID is the LMS session UID.
type RoomEventMeeting struct {
	InternalMeetingID string `mapstructure:"internal-meeting-id"`
	ExternalMeetingID string `mapstructure:"external-meeting-id"`
}

// RoomEventUser identifies the user an event refers to. The external user ID
// is the LMS user UID.
type RoomEventUser struct {
	InternalUserID string `mapstructure:"internal-user-id"`
	ExternalUserID string `mapstructure:"external-user-id"`
	Name           string `mapstructure:"name"`
	Role           string `mapstructure:"role"`
}

// RoomEventPlayback is the playback metadata of a published recording.
type RoomEventPlayback struct {
	Format string `mapstructure:"format"`
	Link   string `mapstructure:"link"`
}

// RoomEventRecording is the recording metadata of a rap-publish-ended event.
type RoomEventRecording struct {
	RecordID string            `mapstructure:"record-id"`
	Name     string            `mapstructure:"name"`
	Playback RoomEventPlayback `mapstructure:"playback"`
}

// RoomEventAttributes is the typed attribute set of a room hook event. Only
// the fields relevant to the event ID are populated.
type RoomEventAttributes struct {
	Meeting   RoomEventMeeting   `mapstructure:"meeting"`
	User      RoomEventUser      `mapstructure:"user"`
	RecordID  string             `mapstructure:"record-id"`
	Recording RoomEventRecording `mapstructure:"recording"`
}

// RoomHookEvent is a decoded room hook event. Timestamp is the envelope's
// send time in epoch milliseconds.
type RoomHookEvent struct {
	ID         string
	Attributes RoomEventAttributes
	Timestamp  int64
}

// eventWrapper matches one element of the envelope's event array.
type eventWrapper struct {
	Data struct {
		Type       string         `json:"type"`
		ID         string         `json:"id"`
		Attributes map[string]any `json:"attributes"`
	} `json:"data"`
}

// ParseRoomHookEnvelope decodes the first event of an envelope. A missing or
// empty event array yields (nil, nil) so callers can treat it as a no-op;
// malformed JSON is an error.
func ParseRoomHookEnvelope(env RoomHookEnvelope) (*RoomHookEvent, error) {
	if env.Event == "" {
		return nil, nil
	}

	var wrappers []eventWrapper
	if err := json.Unmarshal([]byte(env.Event), &wrappers); err != nil {
		return nil, err
	}
	if len(wrappers) == 0 || wrappers[0].Data.ID == "" {
		return nil, nil
	}

	event := &RoomHookEvent{
		ID: wrappers[0].Data.ID,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &event.Attributes,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(wrappers[0].Data.Attributes); err != nil {
		return nil, err
	}

	// The timestamp is best-effort; a missing value leaves it at zero and
	// downstream duration math falls back to the unknown sentinel.
	if env.Timestamp != "" {
		if ts, err := strconv.ParseInt(env.Timestamp, 10, 64); err == nil {
			event.Timestamp = ts
		}
	}

	return event, nil
}

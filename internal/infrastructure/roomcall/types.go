// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package roomcall

import "encoding/xml"

// API action names. Each action is signed individually, so the exact
// string is part of the checksum input.
const (
	actionCreate         = "create"
	actionGetMeetingInfo = "getMeetingInfo"
	actionJoin           = "join"
	actionHooksCreate    = "hooks/create"
	actionHooksDestroy   = "hooks/destroy"
)

// messageKeyNotFound is returned by getMeetingInfo for unknown meetings.
const messageKeyNotFound = "notFound"

// baseResponse carries the fields every control-plane response shares.
type baseResponse struct {
	ReturnCode string `xml:"returncode"`
	MessageKey string `xml:"messageKey"`
	Message    string `xml:"message"`
}

// meetingInfoResponse is the response of both create and getMeetingInfo.
type meetingInfoResponse struct {
	XMLName xml.Name `xml:"response"`
	baseResponse
	MeetingName       string `xml:"meetingName"`
	MeetingID         string `xml:"meetingID"`
	InternalMeetingID string `xml:"internalMeetingID"`
	AttendeePW        string `xml:"attendeePW"`
	ModeratorPW       string `xml:"moderatorPW"`
	Running           bool   `xml:"running"`
	Recording         bool   `xml:"recording"`
	HasUserJoined     bool   `xml:"hasUserJoined"`
	ParticipantCount  int    `xml:"participantCount"`
	ModeratorCount    int    `xml:"moderatorCount"`
}

// hookResponse is the response of hooks/create and hooks/destroy.
type hookResponse struct {
	XMLName xml.Name `xml:"response"`
	baseResponse
	HookID        string `xml:"hookID"`
	PermanentHook bool   `xml:"permanentHook"`
	RawData       bool   `xml:"rawData"`
	Removed       bool   `xml:"removed"`
}

// joinResponse is the response of join with redirect=false.
type joinResponse struct {
	XMLName xml.Name `xml:"response"`
	baseResponse
	URL string `xml:"url"`
}

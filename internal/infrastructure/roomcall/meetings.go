// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package roomcall

import (
	"context"
	"net/url"
	"strconv"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// CreateMeeting creates a meeting room on the default endpoint. Creating a
// meeting that already exists returns the existing room's state, so the call
// is safe to repeat.
func (c *Client) CreateMeeting(ctx context.Context, req *models.CreateMeetingRequest) (*models.MeetingInfo, error) {
	endpoint := c.defaultEndpoint()

	params := url.Values{}
	params.Set("meetingID", req.MeetingID)
	params.Set("name", req.Name)
	params.Set("record", strconv.FormatBool(req.Record))
	if req.Welcome != "" {
		params.Set("welcome", req.Welcome)
	}
	if req.LogoURL != "" {
		params.Set("logo", req.LogoURL)
	}
	if req.BannerText != "" {
		params.Set("bannerText", req.BannerText)
	}
	if req.BannerColor != "" {
		params.Set("bannerColor", req.BannerColor)
	}
	if req.LogoutURL != "" {
		params.Set("logoutURL", req.LogoutURL)
	}
	if req.MaxParticipants > 0 {
		params.Set("maxParticipants", strconv.Itoa(req.MaxParticipants))
	}

	var resp meetingInfoResponse
	if err := c.doCall(ctx, endpoint, actionCreate, params, &resp); err != nil {
		return nil, err
	}
	if resp.ReturnCode != models.ReturnCodeSuccess {
		return nil, apiError(actionCreate, resp.baseResponse)
	}

	return meetingInfoFromResponse(&resp, endpoint), nil
}

// GetMeetingInfo returns the meeting's state as reported by the given
// endpoint, or nil (without error) when the endpoint does not know the
// meeting.
func (c *Client) GetMeetingInfo(ctx context.Context, meetingID, endpoint string) (*models.MeetingInfo, error) {
	params := url.Values{}
	params.Set("meetingID", meetingID)

	var resp meetingInfoResponse
	if err := c.doCall(ctx, endpoint, actionGetMeetingInfo, params, &resp); err != nil {
		return nil, err
	}
	if resp.ReturnCode != models.ReturnCodeSuccess {
		if resp.MessageKey == messageKeyNotFound {
			return nil, nil
		}
		return nil, apiError(actionGetMeetingInfo, resp.baseResponse)
	}

	return meetingInfoFromResponse(&resp, endpoint), nil
}

// JoinURL issues a signed join URL for the given user and meeting. The call
// uses redirect=false so the endpoint returns the URL instead of a 302.
func (c *Client) JoinURL(ctx context.Context, req *models.JoinRequest) (string, error) {
	params := url.Values{}
	params.Set("meetingID", req.MeetingID)
	params.Set("fullName", req.FullName)
	params.Set("password", req.Password)
	params.Set("userID", req.UserID)
	params.Set("redirect", "false")

	var resp joinResponse
	if err := c.doCall(ctx, req.Endpoint, actionJoin, params, &resp); err != nil {
		return "", err
	}
	if resp.ReturnCode != models.ReturnCodeSuccess {
		return "", apiError(actionJoin, resp.baseResponse)
	}

	return resp.URL, nil
}

func meetingInfoFromResponse(resp *meetingInfoResponse, endpoint string) *models.MeetingInfo {
	return &models.MeetingInfo{
		MeetingID:         resp.MeetingID,
		InternalMeetingID: resp.InternalMeetingID,
		MeetingName:       resp.MeetingName,
		AttendeePW:        resp.AttendeePW,
		ModeratorPW:       resp.ModeratorPW,
		Running:           resp.Running,
		Recording:         resp.Recording,
		HasUserJoined:     resp.HasUserJoined,
		ParticipantCount:  resp.ParticipantCount,
		ModeratorCount:    resp.ModeratorCount,
		Endpoint:          endpoint,
	}
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package roomcall

import (
	"context"
	"net/url"
	"strconv"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// CreateHook subscribes callbackURL to the lifecycle events of meetingID on
// the given endpoint. An empty meetingID subscribes to all meetings on the
// endpoint. The endpoint deduplicates by callback URL, so re-creating an
// existing hook returns the existing hook ID.
func (c *Client) CreateHook(ctx context.Context, callbackURL, meetingID, endpoint string, getRaw bool) (*models.HookCreateResponse, error) {
	params := url.Values{}
	params.Set("callbackURL", callbackURL)
	if meetingID != "" {
		params.Set("meetingID", meetingID)
	}
	if getRaw {
		params.Set("getRaw", strconv.FormatBool(getRaw))
	}

	var resp hookResponse
	if err := c.doCall(ctx, endpoint, actionHooksCreate, params, &resp); err != nil {
		return nil, err
	}

	return &models.HookCreateResponse{
		ReturnCode:    resp.ReturnCode,
		HookID:        resp.HookID,
		PermanentHook: resp.PermanentHook,
		RawData:       resp.RawData,
		MessageKey:    resp.MessageKey,
		Message:       resp.Message,
	}, nil
}

// DestroyHook removes a webhook subscription from the given endpoint.
func (c *Client) DestroyHook(ctx context.Context, hookID, endpoint string) error {
	params := url.Values{}
	params.Set("hookID", hookID)

	var resp hookResponse
	if err := c.doCall(ctx, endpoint, actionHooksDestroy, params, &resp); err != nil {
		return err
	}
	if resp.ReturnCode != models.ReturnCodeSuccess {
		return apiError(actionHooksDestroy, resp.baseResponse)
	}

	return nil
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/internal/service"
	"github.com/openlms/live-session-service/pkg/constants"
)

// LiveSessionAPI is the HTTP surface of the service: webhook ingress from the
// room control plane plus the join URL endpoint for the LMS frontend.
type LiveSessionAPI struct {
	ingestService *service.WebhookIngestService
	joinService   *service.JoinService
	readyChecks   []func() bool
}

// NewLiveSessionAPI creates a new LiveSessionAPI.
func NewLiveSessionAPI(
	ingestService *service.WebhookIngestService,
	joinService *service.JoinService,
	readyChecks ...func() bool,
) *LiveSessionAPI {
	return &LiveSessionAPI{
		ingestService: ingestService,
		joinService:   joinService,
		readyChecks:   readyChecks,
	}
}

// Routes mounts all API routes on the given router.
func (api *LiveSessionAPI) Routes(r chi.Router) {
	r.Post("/webhooks/room", api.handleRoomWebhook(false))
	r.Post("/webhooks/room/recorded", api.handleRoomWebhook(true))
	r.Post("/webhooks/room/screen-recording", api.handleScreenRecording)
	r.Post("/sessions/{uid}/join-url", api.handleJoinURL)
	r.Get("/livez", api.handleLivez)
	r.Get("/readyz", api.handleReadyz)
}

// handleRoomWebhook ingests a webhook envelope posted by the control plane.
// The hook sender posts form-encoded "event" and "timestamp" fields. The
// response is always 200 once the envelope is on the queue, so the sender
// does not retry against us.
func (api *LiveSessionAPI) handleRoomWebhook(recorded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeDomainError(w, r, domain.NewValidationError("invalid webhook payload", err))
			return
		}

		envelope := models.RoomHookEnvelope{
			Event:     r.PostFormValue("event"),
			Timestamp: r.PostFormValue("timestamp"),
			Domain:    r.PostFormValue("domain"),
		}

		if err := api.ingestService.EnqueueRoomHookEnvelope(r.Context(), envelope, recorded); err != nil {
			writeDomainError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// screenRecordingRequest is the payload of the screen-recording completion
// endpoint, posted by the recording pipeline.
type screenRecordingRequest struct {
	SessionUID string                 `json:"session_uid"`
	Playback   models.SessionPlayback `json:"playback"`
}

func (api *LiveSessionAPI) handleScreenRecording(w http.ResponseWriter, r *http.Request) {
	var req screenRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, r, domain.NewValidationError("invalid request body", err))
		return
	}

	if err := api.ingestService.HandleScreenRecordingCompleted(r.Context(), req.SessionUID, req.Playback); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// joinURLRequest is the payload of the join URL endpoint.
type joinURLRequest struct {
	AccessCode string `json:"access_code,omitempty"`
}

// joinURLResponse carries the signed join URL back to the frontend.
type joinURLResponse struct {
	JoinURL string `json:"join_url"`
}

func (api *LiveSessionAPI) handleJoinURL(w http.ResponseWriter, r *http.Request) {
	sessionUID := chi.URLParam(r, "uid")

	user := userFromHeaders(r)
	if user.UID == "" {
		writeDomainError(w, r, domain.NewValidationError("missing user identity"))
		return
	}

	var req joinURLRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDomainError(w, r, domain.NewValidationError("invalid request body", err))
			return
		}
	}

	joinURL, err := api.joinService.GetJoinURL(r.Context(), user, sessionUID, req.AccessCode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, joinURLResponse{JoinURL: joinURL})
}

func (api *LiveSessionAPI) handleLivez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

func (api *LiveSessionAPI) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	for _, check := range api.readyChecks {
		if !check() {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY\n"))
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// userFromHeaders builds the caller's identity from the headers the LMS
// gateway sets after authenticating the request.
func userFromHeaders(r *http.Request) models.User {
	user := models.User{
		UID:      r.Header.Get(constants.UserUIDHeader),
		FullName: r.Header.Get(constants.UserNameHeader),
		Email:    r.Header.Get(constants.UserEmailHeader),
	}
	if roles := r.Header.Get(constants.UserRolesHeader); roles != "" {
		for _, role := range strings.Split(roles, ",") {
			role = strings.TrimSpace(role)
			if role != "" {
				user.Roles = append(user.Roles, role)
			}
		}
	}
	return user
}

// errorResponse is the JSON error body of the API.
type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// writeDomainError maps a domain error to its HTTP status and writes the
// JSON error body.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeForbidden:
		status = http.StatusForbidden
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", logging.ErrKey, err)
	}

	writeJSON(w, status, errorResponse{
		Code:    domain.GetErrorCode(err),
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.With(logging.ErrKey, err).Error("error encoding response body")
	}
}

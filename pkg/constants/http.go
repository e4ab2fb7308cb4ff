// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package constants

// Constants for the HTTP request headers
const (
	// AuthorizationHeader is the header name for the authorization
	AuthorizationHeader string = "authorization"

	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// Identity headers forwarded by the LMS gateway after authentication.
	UserUIDHeader   string = "X-User-UID"
	UserNameHeader  string = "X-User-Name"
	UserEmailHeader string = "X-User-Email"
	UserRolesHeader string = "X-User-Roles"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

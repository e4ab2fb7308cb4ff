// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package constants

import (
	"testing"
)

func TestHTTPHeaderConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{
			name:     "AuthorizationHeader",
			constant: AuthorizationHeader,
			expected: "authorization",
		},
		{
			name:     "RequestIDHeader",
			constant: RequestIDHeader,
			expected: "X-REQUEST-ID",
		},
		{
			name:     "UserUIDHeader",
			constant: UserUIDHeader,
			expected: "X-User-UID",
		},
		{
			name:     "UserNameHeader",
			constant: UserNameHeader,
			expected: "X-User-Name",
		},
		{
			name:     "UserEmailHeader",
			constant: UserEmailHeader,
			expected: "X-User-Email",
		},
		{
			name:     "UserRolesHeader",
			constant: UserRolesHeader,
			expected: "X-User-Roles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestRequestIDContextID(t *testing.T) {
	// The context ID matches the header so that middleware and handlers agree
	// on the propagated value.
	if string(RequestIDContextID) != RequestIDHeader {
		t.Errorf("RequestIDContextID (%q) should match RequestIDHeader (%q)", RequestIDContextID, RequestIDHeader)
	}
}

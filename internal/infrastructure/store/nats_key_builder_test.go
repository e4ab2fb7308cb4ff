// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBuilderLogicalKeys(t *testing.T) {
	kb := NewKeyBuilder()

	assert.Equal(t, "ROOM_HOOK:abc123-160", kb.HookKey("abc123-160"))
	assert.Equal(t, "ROOM_TRACKING_INFO:abc123-160:user-1", kb.TrackingKey("abc123-160", "user-1"))
	assert.Equal(t, "ROOM_TRACKING_INFO:abc123-160:", kb.TrackingPrefix("abc123-160"))
	assert.True(t, strings.HasPrefix(kb.TrackingKey("abc123-160", "user-1"), kb.TrackingPrefix("abc123-160")))
}

func TestKeyBuilderEncodeDecodeRoundTrip(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []string{
		kb.HookKey("abc123-160"),
		kb.TrackingKey("abc123-160", "user-1"),
		"ROOM_TRACKING_INFO:meeting with spaces:user/with/slashes",
	}

	for _, logical := range tests {
		t.Run(logical, func(t *testing.T) {
			encoded, err := kb.EncodeKey(logical)
			require.NoError(t, err)
			assert.NotContains(t, encoded, ":")

			decoded, err := kb.DecodeKey(encoded)
			require.NoError(t, err)
			assert.Equal(t, logical, decoded)
		})
	}
}

func TestKeyBuilderEncodeEmptyKey(t *testing.T) {
	kb := NewKeyBuilder()

	_, err := kb.EncodeKey("")
	assert.Error(t, err)

	_, err = kb.DecodeKey("")
	assert.Error(t, err)
}

func TestKeyBuilderDecodeInvalidBase64(t *testing.T) {
	kb := NewKeyBuilder()

	_, err := kb.DecodeKey("!!!not-base64!!!")
	assert.Error(t, err)
}

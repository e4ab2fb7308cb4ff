// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"strings"

	"github.com/nats-io/nats.go"
)

// Logical key prefixes. These match the key format of the legacy Redis
// layout so that stored keys remain recognizable in tooling.
const (
	KeyPrefixRoomHook     = "ROOM_HOOK"
	KeyPrefixRoomTracking = "ROOM_TRACKING_INFO"

	keySeparator = ":"
)

// KeyBuilder builds the logical colon-separated keys and translates them to
// and from the encoded form NATS KV accepts (NATS KV keys cannot contain
// ':', so each segment is base64-encoded and segments are joined with '.').
//
// Encoding scheme from https://github.com/ripienaar/encodedkv
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// HookKey builds the logical key of a meeting's hook record.
func (kb *KeyBuilder) HookKey(internalMeetingID string) string {
	return KeyPrefixRoomHook + keySeparator + internalMeetingID
}

// TrackingKey builds the logical key of a user's view tracking record.
func (kb *KeyBuilder) TrackingKey(internalMeetingID, userID string) string {
	return KeyPrefixRoomTracking + keySeparator + internalMeetingID + keySeparator + userID
}

// TrackingPrefix builds the logical key prefix matching all tracking records
// of one meeting.
func (kb *KeyBuilder) TrackingPrefix(internalMeetingID string) string {
	return KeyPrefixRoomTracking + keySeparator + internalMeetingID + keySeparator
}

// EncodeKey encodes a logical key for the NATS KV store.
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	if key == "" {
		return "", nats.ErrInvalidKey
	}

	res := []string{}
	for _, part := range strings.Split(key, keySeparator) {
		dst := make([]byte, base64.StdEncoding.EncodedLen(len(part)))
		base64.StdEncoding.Encode(dst, []byte(part))
		res = append(res, string(dst))
	}

	return strings.Join(res, "."), nil
}

// DecodeKey decodes a NATS KV store key back to its logical form.
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	if key == "" {
		return "", nats.ErrInvalidKey
	}

	res := []string{}
	for _, part := range strings.Split(key, ".") {
		k, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}

		res = append(res, string(k))
	}

	return strings.Join(res, keySeparator), nil
}

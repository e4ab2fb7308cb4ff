// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/openlms/live-session-service/internal/domain/models"
)

// QueueMessage represents a message delivered from one of the durable
// room-hook queues. Handlers must either Ack the message or Nak it with a
// delay so that the queue redelivers it.
type QueueMessage interface {
	Subject() string
	Data() []byte
	Ack() error
	NakWithDelay(delay time.Duration) error
}

// MessageHandler defines how the service handles incoming queue messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg QueueMessage)
	HandlerReady() bool
}

// RoomHookEventPublisher publishes webhook envelopes to the room-hook queues
// for asynchronous processing.
type RoomHookEventPublisher interface {
	PublishRoomHookEvent(ctx context.Context, subject string, message models.RoomHookEventMessage) error
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/logging"
)

// INatsConn is the NATS connection interface the messaging layer needs.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// MessageBuilder builds messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// PublishRoomHookEvent publishes a room webhook envelope to NATS for async
// processing by the queue consumers.
func (m *MessageBuilder) PublishRoomHookEvent(ctx context.Context, subject string, message models.RoomHookEventMessage) error {
	if message.ReceivedAt.IsZero() {
		message.ReceivedAt = time.Now().UTC()
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling room hook event into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "publishing room hook event to NATS",
		"subject", subject,
		"envelope_timestamp", message.Envelope.Timestamp,
		"envelope_domain", message.Envelope.Domain,
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/domain/models"
	"github.com/openlms/live-session-service/internal/infrastructure/store"
	"github.com/openlms/live-session-service/internal/logging"
)

// Names of the JetStream stream and durable consumers for the room-hook
// queues.
const (
	roomHookStreamName           = "LMS_ROOM_HOOKS"
	roomHookEventConsumerName    = "room-hook-events"
	roomRecordedHookConsumerName = "room-recorded-hook-events"
	natsConnectTimeout           = 10 * time.Second
	natsShutdownTimeout          = 25 * time.Second
)

// repositories bundles the NATS KV backed repositories of the service.
type repositories struct {
	Hook     domain.HookRecordRepository
	Tracking domain.ViewTrackingRecordRepository
	Entry    domain.ViewTrackingEntryRepository
}

// setupNATS establishes the NATS connection. The connection drains
// gracefully on shutdown; an unexpected close signals the done channel so
// that the process exits instead of running without its storage and queues.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", env.NatsURL).Debug("attempting to connect to NATS")

	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(natsShutdownTimeout),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Debug("connected to NATS")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
		}),
		nats.ClosedHandler(func(conn *nats.Conn) {
			gracefulCloseWG.Done()
			if err := conn.LastError(); err != nil {
				slog.With(logging.ErrKey, err).Error("NATS connection closed unexpectedly")
				// Wake the main goroutine so the process can exit.
				select {
				case done <- os.Interrupt:
				default:
				}
				return
			}
			slog.Debug("NATS connection closed")
		}),
		nats.RetryOnFailedConnect(true),
		nats.Timeout(natsConnectTimeout),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// getKeyValueStores binds the service repositories to their JetStream KV
// buckets, creating any bucket that does not exist yet.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	hookKV, err := getKeyValue(ctx, js, store.KVStoreNameRoomHooks)
	if err != nil {
		return nil, err
	}
	trackingKV, err := getKeyValue(ctx, js, store.KVStoreNameRoomTracking)
	if err != nil {
		return nil, err
	}
	entryKV, err := getKeyValue(ctx, js, store.KVStoreNameRoomViewEntries)
	if err != nil {
		return nil, err
	}

	return &repositories{
		Hook:     store.NewNatsHookRecordRepository(hookKV),
		Tracking: store.NewNatsViewTrackingRecordRepository(trackingKV),
		Entry:    store.NewNatsViewTrackingEntryRepository(entryKV),
	}, nil
}

func getKeyValue(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
}

// createQueueConsumers creates the durable room-hook queue consumers and
// starts delivering messages to the handler.
func createQueueConsumers(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return err
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name: roomHookStreamName,
		Subjects: []string{
			models.RoomHookEventSubject,
			models.RoomRecordedHookEventSubject,
		},
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		return err
	}

	consumers := []struct {
		durable string
		subject string
	}{
		{roomHookEventConsumerName, models.RoomHookEventSubject},
		{roomRecordedHookConsumerName, models.RoomRecordedHookEventSubject},
	}

	for _, c := range consumers {
		consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
			Durable:       c.durable,
			FilterSubject: c.subject,
			AckPolicy:     jetstream.AckExplicitPolicy,
		})
		if err != nil {
			return err
		}

		_, err = consumer.Consume(func(msg jetstream.Msg) {
			handler.HandleMessage(ctx, &jetstreamQueueMessage{msg: msg})
		})
		if err != nil {
			return err
		}
		slog.With("durable", c.durable, "subject", c.subject).Debug("created queue consumer")
	}

	return nil
}

// jetstreamQueueMessage adapts a jetstream.Msg to [domain.QueueMessage].
type jetstreamQueueMessage struct {
	msg jetstream.Msg
}

func (m *jetstreamQueueMessage) Subject() string {
	return m.msg.Subject()
}

func (m *jetstreamQueueMessage) Data() []byte {
	return m.msg.Data()
}

func (m *jetstreamQueueMessage) Ack() error {
	return m.msg.Ack()
}

func (m *jetstreamQueueMessage) NakWithDelay(delay time.Duration) error {
	return m.msg.NakWithDelay(delay)
}

// gracefulShutdown stops the HTTP server and drains the NATS connection,
// waiting for both to finish before returning.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), natsShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	// An already-closed connection has run its ClosedHandler, which owns the
	// wait group decrement.
	if natsConn != nil && !natsConn.IsClosed() {
		// Drain lets in-flight queue messages finish before the connection
		// closes; the ClosedHandler decrements the wait group.
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			gracefulCloseWG.Done()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

// Package main is the live session service API that ingests room webhook
// events, tracks webinar attendance and issues meeting join URLs.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/handlers"
	"github.com/openlms/live-session-service/internal/infrastructure/email"
	"github.com/openlms/live-session-service/internal/infrastructure/messaging"
	"github.com/openlms/live-session-service/internal/infrastructure/roomcall"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/internal/service"
	"github.com/openlms/live-session-service/pkg/utils"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Set up tracing before anything that emits spans.
	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}

	// Initialize the room control plane client
	roomClient, err := roomcall.NewClient(roomcall.Config{
		Endpoints: env.RoomEndpoints,
		Secret:    env.RoomSecret,
	})
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up room API client")
		os.Exit(1)
	}

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup NATS connection
	natsConn, err := setupNATS(env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	sessionClient := messaging.NewSessionClient(natsConn)
	hookRegistryService := service.NewHookRegistryService(repos.Hook, roomClient)
	viewTrackingService := service.NewViewTrackingService(repos.Tracking, repos.Entry)
	ingestService := service.NewWebhookIngestService(messageBuilder, sessionClient)
	joinService := service.NewJoinService(
		env.JoinConfig,
		sessionClient,
		roomClient,
		hookRegistryService,
		emailService,
	)

	// Initialize handlers
	roomHookHandler := handlers.NewRoomHookHandler(
		handlers.RoomHookHandlerConfig{
			RecordedHookCallbackURL: env.RecordedHookCallbackURL,
		},
		hookRegistryService,
		viewTrackingService,
		sessionClient,
	)

	api := NewLiveSessionAPI(
		ingestService,
		joinService,
		natsConn.IsConnected,
		ingestService.ServiceReady,
		joinService.ServiceReady,
		roomHookHandler.HandlerReady,
	)

	httpServer := setupHTTPServer(flags, api, &gracefulCloseWG)

	// Create the durable queue consumers for the service.
	err = createQueueConsumers(ctx, roomHookHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating queue consumers")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)

	if err := otelShutdown(context.Background()); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry SDK")
	}
}

// setupEmailService builds the notification email sender. Without an SMTP
// host configured, notifications are a logged no-op.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTPConfig.Host == "" {
		slog.Info("SMTP_HOST not set, session notifications disabled")
		return email.NewNoOpService(), nil
	}
	return email.NewSMTPService(env.SMTPConfig)
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/openlms/live-session-service/internal/infrastructure/email"
	"github.com/openlms/live-session-service/internal/logging"
	"github.com/openlms/live-session-service/internal/service"
)

// flags are the command line flags for the live session service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the live session service.
type environment struct {
	Port    string
	NatsURL string

	// Room control plane
	RoomEndpoints []string
	RoomSecret    string

	// Webhook callback URLs registered with the control plane
	HookCallbackURL         string
	RecordedHookCallbackURL string

	JoinConfig service.JoinConfig
	SMTPConfig email.SMTPConfig
}

// parseFlags parses command line flags for the live session service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the live session service
func parseEnv() environment {
	// A local .env file is optional; the container environment wins.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	endpointsRaw := os.Getenv("ROOM_API_ENDPOINTS")
	if endpointsRaw == "" {
		slog.Error("ROOM_API_ENDPOINTS environment variable is required but not set")
		os.Exit(1)
	}
	var endpoints []string
	for _, e := range strings.Split(endpointsRaw, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			endpoints = append(endpoints, e)
		}
	}

	secret := os.Getenv("ROOM_API_SECRET")
	if secret == "" {
		slog.Error("ROOM_API_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	hookCallbackURL := os.Getenv("HOOK_CALLBACK_URL")
	if hookCallbackURL == "" {
		slog.Error("HOOK_CALLBACK_URL environment variable is required but not set")
		os.Exit(1)
	}

	recordedHookCallbackURL := os.Getenv("RECORDED_HOOK_CALLBACK_URL")
	if recordedHookCallbackURL == "" {
		slog.Error("RECORDED_HOOK_CALLBACK_URL environment variable is required but not set")
		os.Exit(1)
	}

	return environment{
		Port:                    port,
		NatsURL:                 natsURL,
		RoomEndpoints:           endpoints,
		RoomSecret:              secret,
		HookCallbackURL:         hookCallbackURL,
		RecordedHookCallbackURL: recordedHookCallbackURL,
		JoinConfig:              parseJoinConfig(hookCallbackURL),
		SMTPConfig:              parseSMTPConfig(),
	}
}

// parseJoinConfig parses the join orchestrator configuration from environment variables
func parseJoinConfig(hookCallbackURL string) service.JoinConfig {
	cfg := service.JoinConfig{
		HookCallbackURL: hookCallbackURL,
		LogoutURL:       os.Getenv("ROOM_LOGOUT_URL"),
		JoinPageBaseURL: os.Getenv("JOIN_PAGE_BASE_URL"),
	}

	cfg.DefaultBranding.LogoURL = os.Getenv("ROOM_DEFAULT_LOGO_URL")
	cfg.DefaultBranding.WelcomeText = os.Getenv("ROOM_DEFAULT_WELCOME_TEXT")
	cfg.DefaultBranding.BannerText = os.Getenv("ROOM_DEFAULT_BANNER_TEXT")
	cfg.DefaultBranding.PrimaryColor = os.Getenv("ROOM_DEFAULT_PRIMARY_COLOR")

	if v := os.Getenv("ROOM_MAX_PARTICIPANTS"); v != "" {
		maxParticipants, err := strconv.Atoi(v)
		if err != nil || maxParticipants < 0 {
			slog.With("value", v).Error("invalid ROOM_MAX_PARTICIPANTS provided, ignoring")
		} else {
			cfg.MaxParticipants = maxParticipants
		}
	}

	return cfg
}

// parseSMTPConfig parses SMTP configuration from environment variables.
// An empty SMTP_HOST disables email notifications.
func parseSMTPConfig() email.SMTPConfig {
	cfg := email.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		From:     os.Getenv("SMTP_FROM"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			slog.With("value", v).Error("invalid SMTP_PORT provided, ignoring")
		} else {
			cfg.Port = port
		}
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return cfg
}

// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

// Package roomcall implements the conferencing control-plane client. The
// control plane speaks a checksummed XML-over-HTTP API across a pool of
// interchangeable endpoints.
package roomcall

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openlms/live-session-service/internal/domain"
	"github.com/openlms/live-session-service/internal/logging"
)

const (
	// DefaultClientTimeout is the default HTTP client timeout for control-plane requests.
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Config holds the configuration for the control-plane client.
type Config struct {
	// Endpoints are the API base URLs in priority order, e.g.
	// "https://rooms.example.org/bigbluebutton". The first entry is the
	// default endpoint for meeting creation.
	Endpoints []string
	// Secret signs every request checksum.
	Secret string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client is the control-plane API client.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Ensure that Client implements domain.RoomClient
var _ domain.RoomClient = (*Client)(nil)

// NewClient creates a new control-plane client.
func NewClient(config Config) (*Client, error) {
	if len(config.Endpoints) == 0 {
		return nil, domain.NewValidationError("at least one control-plane endpoint is required")
	}
	if config.Secret == "" {
		return nil, domain.NewValidationError("control-plane shared secret is required")
	}

	// Set defaults if not provided
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	endpoints := make([]string, len(config.Endpoints))
	for i, endpoint := range config.Endpoints {
		endpoints[i] = strings.TrimRight(endpoint, "/")
	}
	config.Endpoints = endpoints

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}, nil
}

// Endpoints returns the configured endpoint base URLs in priority order.
func (c *Client) Endpoints() []string {
	endpoints := make([]string, len(c.config.Endpoints))
	copy(endpoints, c.config.Endpoints)
	return endpoints
}

// defaultEndpoint is where new meetings are created.
func (c *Client) defaultEndpoint() string {
	return c.config.Endpoints[0]
}

// checksum signs an API call: SHA-1 over action + query + secret, hex encoded.
func (c *Client) checksum(action, query string) string {
	sum := sha1.Sum([]byte(action + query + c.config.Secret))
	return hex.EncodeToString(sum[:])
}

// buildURL assembles the full request URL for an API action, appending the
// checksum as the last query parameter.
func (c *Client) buildURL(endpoint, action string, params url.Values) string {
	query := params.Encode()
	checksum := c.checksum(action, query)
	if query != "" {
		query += "&"
	}
	return fmt.Sprintf("%s/api/%s?%schecksum=%s", endpoint, action, query, checksum)
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	// Don't retry if context was cancelled
	if err != nil {
		if ctx, ok := err.(interface{ Err() error }); ok {
			if ctx.Err() == context.Canceled || ctx.Err() == context.DeadlineExceeded {
				return false
			}
		}
		// Retry on network/connection errors
		return true
	}

	// Retry on server errors (5xx) and rate limiting (429)
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	return false
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Add jitter (±25% of backoff duration) to prevent thundering herd
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)
	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// doCall performs a signed GET request against one endpoint with retry logic
// and decodes the XML response body into result.
func (c *Client) doCall(ctx context.Context, endpoint, action string, params url.Values, result any) error {
	requestURL := c.buildURL(endpoint, action, params)

	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt == 0 {
			slog.DebugContext(ctx, "making control-plane API request",
				"action", action,
				"endpoint", endpoint,
				"max_retries", c.config.MaxRetries,
			)
		} else {
			slog.DebugContext(ctx, "retrying control-plane API request",
				"action", action,
				"endpoint", endpoint,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
			)
		}

		body, statusCode, duration, err := c.executeRequest(ctx, requestURL)
		if err == nil && statusCode == http.StatusOK {
			slog.DebugContext(ctx, "control-plane API request completed",
				"action", action,
				"endpoint", endpoint,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
			)
			if err := xml.Unmarshal(body, result); err != nil {
				return domain.NewInternalError(
					fmt.Sprintf("failed to decode control-plane %s response", action), err)
			}
			return nil
		}

		lastErr, lastStatus = err, statusCode

		if !shouldRetry(statusCode, err) {
			slog.ErrorContext(ctx, "control-plane API request failed (not retryable)",
				"action", action,
				"endpoint", endpoint,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				logging.ErrKey, err)
			break
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "control-plane API request failed, retrying",
				"action", action,
				"endpoint", endpoint,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff.String(),
				logging.ErrKey, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		} else {
			slog.ErrorContext(ctx, "control-plane API request failed after all retries",
				"action", action,
				"endpoint", endpoint,
				"status", statusCode,
				"attempts", attempt+1,
				"max_retries", c.config.MaxRetries,
				logging.ErrKey, err,
				logging.PriorityCritical())
		}
	}

	if lastErr != nil {
		return domain.NewUnavailableError(
			fmt.Sprintf("control-plane %s request failed after %d attempts", action, c.config.MaxRetries+1), lastErr)
	}
	return domain.NewUnavailableError(
		fmt.Sprintf("control-plane %s request returned status %d", action, lastStatus))
}

// executeRequest performs a single HTTP round trip and drains the body.
func (c *Client) executeRequest(ctx context.Context, requestURL string) ([]byte, int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create request: %w", err)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		return nil, 0, duration, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, duration, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, duration, nil
}

// apiError turns a FAILED returncode into a typed error.
func apiError(action string, resp baseResponse) error {
	return domain.NewInternalError(
		fmt.Sprintf("control-plane %s failed: %s (%s)", action, resp.Message, resp.MessageKey))
}

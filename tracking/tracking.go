// Package tracking is the engagement collaborator: best-effort visit and
// conversion events sent to an external analytics endpoint. Failures here
// never affect registration or payment state.
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	EventReturnVisit       = "checkout_return_visit"
	EventPaymentConversion = "payment_conversion"
)

type Event struct {
	Name           string            `json:"name"`
	RegistrationID string            `json:"registrationId"`
	Properties     map[string]string `json:"properties,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

type Tracker interface {
	Track(ctx context.Context, event Event) error
}

// HTTPTracker posts events to the analytics collector.
type HTTPTracker struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

var _ Tracker = &HTTPTracker{}

func NewHTTPTracker(httpClient *http.Client, endpoint string, apiKey string) *HTTPTracker {
	return &HTTPTracker{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

func (t *HTTPTracker) Track(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode tracking event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build tracking request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("tracking endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// LogTracker logs events instead of shipping them, for local dev and for
// deployments without an analytics endpoint configured.
type LogTracker struct {
	logger *slog.Logger
}

var _ Tracker = &LogTracker{}

func NewLogTracker(logger *slog.Logger) *LogTracker {
	return &LogTracker{logger: logger}
}

func (t *LogTracker) Track(ctx context.Context, event Event) error {
	t.logger.InfoContext(ctx, "tracking event",
		slog.String("name", event.Name),
		slog.String("registration-id", event.RegistrationID),
		slog.Any("properties", event.Properties),
	)

	return nil
}

package attribution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNotStarted is returned when Track is called before Start.
var ErrNotStarted = errors.New("attribution client not started")

// EventName identifies a marketing event reported to the attribution service.
type EventName string

const (
	EventRegistration EventName = "registration"
	EventSubscription EventName = "subscription_purchase"
	EventCampaignOpen EventName = "campaign_open"
)

// Event is one attribution event.
type Event struct {
	Name   EventName              `json:"name"`
	UserID string                 `json:"user_id"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Config configures the attribution client.
type Config struct {
	AppID    string
	Endpoint string
	Timeout  time.Duration
}

// Client reports marketing events. Initialization state lives on the client
// itself, not in package-level variables: callers hold the client and can
// observe Initialized directly.
type Client struct {
	appID       string
	endpoint    string
	httpClient  *http.Client
	initialized bool
}

// NewClient creates an unstarted attribution client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		appID:      cfg.AppID,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Start marks the client ready. Starting twice is a no-op.
func (c *Client) Start() error {
	if c.appID == "" {
		return errors.New("attribution app id is required")
	}
	if c.endpoint == "" {
		return errors.New("attribution endpoint is required")
	}
	c.initialized = true
	log.WithField("app_id", c.appID).Info("Attribution client started")
	return nil
}

// Initialized reports whether Start has completed.
func (c *Client) Initialized() bool {
	return c.initialized
}

// Track reports one event. It fails fast when the client was never started
// and never retries a delivery failure.
func (c *Client) Track(ctx context.Context, event Event) error {
	if !c.initialized {
		return ErrNotStarted
	}

	payload, err := json.Marshal(struct {
		AppID string `json:"app_id"`
		Event Event  `json:"event"`
	}{AppID: c.appID, Event: event})
	if err != nil {
		return fmt.Errorf("marshal attribution event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("attribution request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("attribution service returned status %d", resp.StatusCode)
	}
	return nil
}

// Package push delivers notifications to user devices through the Expo push
// gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultGatewayURL is the Expo push API endpoint.
const DefaultGatewayURL = "https://exp.host/--/api/v2/push/send"

// DefaultTimeout bounds one gateway round trip.
const DefaultTimeout = 10 * time.Second

// deviceNotRegistered is the Expo ticket detail that marks a token as
// permanently invalid.
const deviceNotRegistered = "DeviceNotRegistered"

// Message is one push message addressed to one device token.
type Message struct {
	To        string         `json:"to"`
	Sound     string         `json:"sound,omitempty"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	ChannelID string         `json:"channelId,omitempty"`
}

// Ticket is the gateway's per-message delivery receipt. Tickets come back in
// the same order as the submitted messages.
type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// DeviceNotRegistered reports whether the ticket marks the target token as
// permanently unregistered, meaning it should be pruned.
func (t Ticket) DeviceNotRegistered() bool {
	if t.Status != "error" {
		return false
	}
	detail, _ := t.Details["error"].(string)
	return detail == deviceNotRegistered
}

type gatewayResponse struct {
	Data []Ticket `json:"data"`
}

// Client is an HTTP client for the Expo push gateway. Calls carry an
// explicit timeout and run behind a circuit breaker so a slow or failing
// gateway cannot pin invocations indefinitely.
type Client struct {
	gatewayURL string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a push gateway client. An empty gatewayURL selects the
// public Expo endpoint; a non-positive timeout selects the default.
func NewClient(gatewayURL string, timeout time.Duration) *Client {
	if gatewayURL == "" {
		gatewayURL = DefaultGatewayURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "expo-push",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Send submits one batched request containing every message and returns the
// per-message tickets.
func (c *Client) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Ticket), nil
}

func (c *Client) send(ctx context.Context, messages []Message) ([]Ticket, error) {
	body, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var parsed gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding push gateway response: %w", err)
	}
	return parsed.Data, nil
}

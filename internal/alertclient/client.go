// Package alertclient is the HTTP client for the alert store collaborator.
package alertclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sentinelcare/pulse/internal/pipeline"
)

const (
	httpTimeout = 10 * time.Second
	maxBodyRead = 64 << 10
)

// Client calls the alert collaborator over HTTP/JSON.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates an alert client for the given base endpoint.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// Create submits an alert to the collaborator, which assigns the identifier
// and timestamp if absent and owns the alert from then on. A non-2xx
// response surfaces as a CollabError; the pipeline treats any error here as
// a dropped alert, never a failed run.
func (c *Client) Create(ctx context.Context, a *pipeline.Alert) (*pipeline.Alert, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid alerts endpoint: %w", err)
	}
	u.Path = "/alerts"

	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alert create failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pipeline.CollabError{Collaborator: "alerts", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created pipeline.Alert
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode alert: %w", err)
	}
	return &created, nil
}

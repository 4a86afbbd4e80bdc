// Package vitalsclient is the HTTP client for the vitals collaborator, which
// owns the vitals time-series store and synthetic reading generation.
package vitalsclient

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
	"github.com/sentinelcare/pulse/internal/vitals"
)

const (
	httpTimeout = 10 * time.Second
	maxBodyRead = 64 << 10
)

// Client calls the vitals collaborator over HTTP/JSON.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a vitals client for the given base endpoint.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// ProduceSynthetic asks the collaborator to generate and persist a reading
// matching the given risk profile. A non-2xx response surfaces as a
// CollabError carrying the collaborator's status and body.
func (c *Client) ProduceSynthetic(ctx context.Context, patientID, riskHint, deviceID string) (*vitals.Reading, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid vitals endpoint: %w", err)
	}
	u.Path = "/vitals/generate"

	q := u.Query()
	q.Set("patient_id", patientID)
	q.Set("risk", riskHint)
	if deviceID != "" {
		q.Set("device_id", deviceID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vitals generate failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pipeline.CollabError{Collaborator: "vitals", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var r vitals.Reading
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode reading: %w", err)
	}
	return &r, nil
}

// Record forwards a caller-supplied reading to the collaborator's store.
func (c *Client) Record(ctx context.Context, r *vitals.Reading) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid vitals endpoint: %w", err)
	}
	u.Path = "/vitals"

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vitals record failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
		return &pipeline.CollabError{Collaborator: "vitals", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

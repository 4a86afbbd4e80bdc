// Package audit sends best-effort audit records to the audit collaborator.
//
// Records are queued on a bounded channel consumed by a single worker; the
// queueing itself never blocks and never fails the caller. Records may be
// lost when the queue is full or the collaborator is unavailable.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

const (
	queueDepth  = 256
	httpTimeout = 5 * time.Second
	maxBodyRead = 512
)

// Event is one audit record.
type Event struct {
	Action    string `json:"action"`
	Subject   string `json:"subject,omitempty"`
	ActorRole string `json:"actor_role,omitempty"`
	Detail    string `json:"detail"`
}

// Emitter queues audit events for delivery to the audit collaborator. An
// Emitter constructed with an empty endpoint is a no-op: collaborator
// absence is not an error.
type Emitter struct {
	endpoint   string
	httpClient *http.Client
	logger     log.Logger
	observe    func(result string)

	ch        chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an audit emitter and starts its delivery worker. observe may
// be nil; it receives "sent", "failed" or "dropped" per event for metrics.
func New(endpoint string, logger log.Logger, observe func(result string)) *Emitter {
	if logger == nil {
		logger = log.Nop()
	}
	e := &Emitter{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		logger:  logger,
		observe: observe,
	}
	if endpoint == "" {
		return e
	}

	e.ch = make(chan Event, queueDepth)
	e.wg.Add(1)
	go e.run()
	return e
}

// Record queues an audit event. It never blocks: when the queue is full the
// event is dropped and counted, matching the accepted-loss contract.
func (e *Emitter) Record(action, subject, actorRole, detail string) {
	if e == nil || e.ch == nil {
		return
	}
	select {
	case e.ch <- Event{Action: action, Subject: subject, ActorRole: actorRole, Detail: detail}:
	default:
		e.note("dropped")
	}
}

// Close stops accepting events and waits for queued events to flush.
func (e *Emitter) Close() {
	if e == nil || e.ch == nil {
		return
	}
	e.closeOnce.Do(func() { close(e.ch) })
	e.wg.Wait()
}

func (e *Emitter) run() {
	defer e.wg.Done()
	for ev := range e.ch {
		if err := e.send(ev); err != nil {
			e.logger.Warn(context.Background(), "audit send failed", "action", ev.Action, "error", err.Error())
			e.note("failed")
			continue
		}
		e.note("sent")
	}
}

func (e *Emitter) send(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()

	u, err := url.Parse(e.endpoint)
	if err != nil {
		return fmt.Errorf("invalid audit endpoint: %w", err)
	}
	u.Path = "/audit"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post audit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
		return fmt.Errorf("audit collaborator returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (e *Emitter) note(result string) {
	if e.observe != nil {
		e.observe(result)
	}
}

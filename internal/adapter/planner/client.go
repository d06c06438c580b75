// Package planner provides the HTTP client that hands completed requirement
// snapshots to the downstream planning agent.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecotrip/orchestrator/domain"
)

// StatusError is a non-2xx response from the planning agent.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("planning agent returned status %d: %s", e.StatusCode, e.Body)
}

// RetryPolicy bounds retries for transient failures: a fixed attempt count
// with a fixed backoff between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(error) bool
}

// Do runs fn until it succeeds, the error is not retryable, the attempts are
// exhausted, or the context is canceled during backoff.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Backoff):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}

// RetryTransient retries network-level failures and 5xx responses. A 4xx
// response is an application error and terminal.
func RetryTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return true
}

// Client is an HTTP client for the planning agent.
type Client struct {
	endpoint   string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient creates a planning agent client posting to endpoint.
func NewClient(endpoint string, timeout time.Duration, retry RetryPolicy) *Client {
	if retry.Retryable == nil {
		retry.Retryable = RetryTransient
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
	}
}

// Notify delivers the finalization snapshot, retrying per the client's
// policy. The passed context bounds the whole retry sequence.
func (c *Client) Notify(ctx context.Context, snap *domain.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return c.retry.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call planning agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}

// Package httpprobe issues single-shot HTTP probes against the service.
package httpprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// probe bodies are small JSON documents; anything larger is truncated
const maxProbeBody = 1 << 20

// Client probes the running service over HTTP. A request that yields no
// response at all is reported through ProbeResult.Unreachable rather
// than a Go error, so callers can classify it as "not up yet".
type Client struct {
	http *http.Client
}

// NewClient builds a probe client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Get implements ports.ProbeClient.
func (c *Client) Get(ctx context.Context, url string) domain.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProbeResult{Unreachable: true, Err: err}
	}
	return c.do(req)
}

// PostJSON implements ports.ProbeClient.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) domain.ProbeResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ProbeResult{Unreachable: true, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ProbeResult{Unreachable: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) domain.ProbeResult {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ProbeResult{Unreachable: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return domain.ProbeResult{Unreachable: true, Err: err}
	}
	return domain.ProbeResult{StatusCode: resp.StatusCode, Body: string(body)}
}

var _ ports.ProbeClient = (*Client)(nil)

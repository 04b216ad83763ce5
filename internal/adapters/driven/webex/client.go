// Package webex talks to the Webex REST API. It implements the token
// and data source ports over plain HTTP with bounded timeouts and a
// client-side rate limiter.
package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/byods-cli/internal/core/domain"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://webexapis.com/v1"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read. Data
	// source listings are small; anything larger is a misbehaving
	// endpoint.
	maxResponseBytes = 4 << 20
)

// Client is the Webex API client. One instance serves both the token
// endpoints and the data source CRUD surface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, typically a
// test server or a regional FedRAMP deployment.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Webex API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		limiter:    NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes one request and returns the status code and raw body.
// Transport failures return an error; HTTP-level failures do not, the
// caller maps the status.
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("building request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfterSeconds(resp))
	}
	return resp.StatusCode, data, nil
}

// doJSON sends an optional JSON payload and decodes a 2xx response
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) (int, []byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request for %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	status, data, err := c.do(ctx, method, path, token, contentType, body)
	if err != nil {
		return 0, nil, err
	}
	if out != nil && is2xx(status) && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return 0, nil, fmt.Errorf("decoding response of %s %s: %w", method, path, err)
		}
	}
	return status, data, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// apiError turns a non-2xx response into the domain's API error.
func apiError(status int, body []byte) *domain.APIError {
	return &domain.APIError{Status: status, Body: strings.TrimSpace(string(body))}
}

// retryAfterSeconds reads the Retry-After header of a 429 response.
func retryAfterSeconds(resp *http.Response) int {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(h, "%d", &secs); err != nil {
		return 0
	}
	return secs
}

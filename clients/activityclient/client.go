// Package activityclient reads and creates activity records over HTTP.
//
// Example usage:
//
//	client := activityclient.New("http://localhost:8080/api/activities")
//	acts, err := client.List(ctx)
package activityclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dnsco/potential/activities"
)

// Client talks to a single activities endpoint.
// Use New() to create a client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A nil client selects the
// default one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. It is applied to a copy of the HTTP
// client, so a client passed to WithHTTPClient is never modified. Zero keeps
// the HTTP client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit allows at most rps requests per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for endpoint, which should include the scheme.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Endpoint returns the URL the client reads from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// List issues a GET to the endpoint and decodes the JSON array of activities.
func (c *Client) List(ctx context.Context) ([]activities.Activity, error) {
	var acts []activities.Activity
	if err := c.do(ctx, http.MethodGet, nil, &acts); err != nil {
		return nil, err
	}
	if acts == nil {
		acts = []activities.Activity{}
	}
	return acts, nil
}

// Create posts a new activity named name and returns the stored record.
func (c *Client) Create(ctx context.Context, name string) (activities.Activity, error) {
	body, err := json.Marshal(activities.Activity{Name: name})
	if err != nil {
		return activities.Activity{}, fmt.Errorf("encoding activity: %w", err)
	}

	var created activities.Activity
	if err := c.do(ctx, http.MethodPost, body, &created); err != nil {
		return activities.Activity{}, err
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("activity request",
		"method", method,
		"url", c.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

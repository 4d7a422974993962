// Package fetch provides the HTTP client used by every network-facing stage.
// Requests share one persistent http.Client, rotate through a User-Agent
// pool and retry transient failures with exponential backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/doclake/core"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 3
	defaultBackoff = 300 * time.Millisecond
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (compatible; DoclakeBot/1.0; +https://github.com/gaurav-prasanna/doclake)",
}

// Statuses worth retrying. Everything else terminal is surfaced as an error
// on the first attempt.
var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client implements core.Fetcher.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
	uaPool  []string
	headers map[string]string
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClient substitutes the underlying http.Client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetries sets how many times a failed request is reattempted.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the backoff factor. Attempt n waits factor*2^(n-1).
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithUserAgents replaces the User-Agent pool.
func WithUserAgents(uas ...string) Option {
	return func(c *Client) { c.uaPool = uas }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client with a 15s timeout, 3 retries and the default
// User-Agent pool.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		retries: defaultRetries,
		backoff: defaultBackoff,
		uaPool:  defaultUserAgents,
		headers: map[string]string{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and buffers the whole body.
func (c *Client) Get(ctx context.Context, url string) (*core.FetchResult, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", url, err)
	}
	return &core.FetchResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// StreamGet fetches url and hands the open body to the caller, who must
// close it.
func (c *Client) StreamGet(ctx context.Context, url string) (*core.StreamResult, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	return &core.StreamResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// do runs the request with the retry schedule: transport errors and the
// retryable status set are retried, any other non-2xx status fails
// immediately.
func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * (1 << (attempt - 1))
			c.log.Debug("retrying request", "url", url, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", url, err)
		}
		req.Header.Set("User-Agent", c.uaPool[rand.Intn(len(c.uaPool))])
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if retryStatus[resp.StatusCode] {
			lastErr = fmt.Errorf("status %d from %s", resp.StatusCode, url)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("status %d from %s", resp.StatusCode, url)
		}
		return resp, nil
	}
	return nil, fmt.Errorf("fetching %s after %d retries: %w", url, c.retries, lastErr)
}

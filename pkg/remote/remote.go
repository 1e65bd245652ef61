// Package remote is an HTTP client for the number transmitter API. Client
// implements counter.Source so a widget in sync mode can mirror a server.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/germanamz/transmitter/pkg/counter"
	"github.com/germanamz/transmitter/pkg/transmitter"
)

// DefaultTimeout bounds a single request when the caller's context has no
// deadline.
const DefaultTimeout = 5 * time.Second

const maxBodyBytes = 1 << 20

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP error! status: %d", e.Path, e.Code)
}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client reads the transmitter API rooted at a base URL.
type Client struct {
	base   *url.URL
	client *http.Client
	log    *slog.Logger
}

var _ counter.Source = (*Client)(nil)

// New creates a client for baseURL (e.g. http://localhost:5001).
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("remote: base url %q: missing host", baseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		base:   u,
		client: opts.HTTPClient,
		log:    opts.Logger.With("component", "remote", "base_url", u.String()),
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// FetchSnapshot reads /api/number and returns the number and cycle count.
// Every failure wraps counter.ErrRemoteFetch.
func (c *Client) FetchSnapshot(ctx context.Context) (counter.Snapshot, error) {
	n, err := c.Number(ctx)
	if err != nil {
		return counter.Snapshot{}, err
	}

	return counter.Snapshot{Number: n.Number, TotalCycles: n.TotalCycles}, nil
}

// Number reads the current transmitted number.
func (c *Client) Number(ctx context.Context) (transmitter.NumberResponse, error) {
	var out transmitter.NumberResponse
	err := c.get(ctx, "/api/number", &out)
	return out, err
}

// Sequence reads the sequence description.
func (c *Client) Sequence(ctx context.Context) (transmitter.SequenceResponse, error) {
	var out transmitter.SequenceResponse
	err := c.get(ctx, "/api/sequence", &out)
	return out, err
}

// Status reads API status and uptime.
func (c *Client) Status(ctx context.Context) (transmitter.StatusResponse, error) {
	var out transmitter.StatusResponse
	err := c.get(ctx, "/api/status", &out)
	return out, err
}

// Health reads the liveness endpoint.
func (c *Client) Health(ctx context.Context) (transmitter.HealthResponse, error) {
	var out transmitter.HealthResponse
	err := c.get(ctx, "/health", &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	if err := c.do(ctx, path, v); err != nil {
		c.log.Debug("request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %w", counter.ErrRemoteFetch, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Path: path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

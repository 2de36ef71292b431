package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"zdenci/exporter/pkg/telemetry/tracing"
	"zdenci/exporter/pkg/zdenci"
)

// Default endpoint paths.
const (
	DefaultListPath   = "/api/zdenci"
	DefaultExportPath = "/api/zdenci/export"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the scheme and host of the records API
	BaseURL string

	// ListPath is the listing endpoint path (defaults to DefaultListPath)
	ListPath string

	// ExportPath is the export endpoint path (defaults to DefaultExportPath)
	ExportPath string

	// Timeout bounds each request. Zero means no client timeout; the
	// request context is honoured either way.
	Timeout time.Duration

	// Headers are sent with every request
	Headers map[string]string
}

// Response is a successful export response.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client is an HTTP client for the records API. It is safe for concurrent
// use.
type Client struct {
	baseURL    *url.URL
	listPath   string
	exportPath string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    base,
		listPath:   cfg.ListPath,
		exportPath: cfg.ExportPath,
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
	}
	if c.listPath == "" {
		c.listPath = DefaultListPath
	}
	if c.exportPath == "" {
		c.exportPath = DefaultExportPath
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "source.client")
	return c, nil
}

// ExportURL returns the export endpoint URL for an encoded query.
func (c *Client) ExportURL(query string) string {
	u := *c.baseURL
	u.Path = u.Path + c.exportPath
	u.RawQuery = query
	return u.String()
}

func (c *Client) listURL() string {
	u := *c.baseURL
	u.Path = u.Path + c.listPath
	u.RawQuery = "length=-1"
	return u.String()
}

// Fetch issues one GET to the export endpoint with the given encoded query
// and returns the body untouched.
func (c *Client) Fetch(ctx context.Context, query string) (*Response, error) {
	target := c.ExportURL(query)

	resp, body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	return &Response{
		URL:         target,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// List loads every record from the listing endpoint. Both a bare JSON array
// and a {"data": [...]} envelope are accepted.
func (c *Client) List(ctx context.Context) ([]zdenci.Record, error) {
	target := c.listURL()

	_, body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	records, err := decodeListing(body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	c.logger.Debug("loaded records", "count", len(records))
	return records, nil
}

// Ping checks that the API answers at all. Any HTTP response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	target := c.listURL()
	req, err := c.newRequest(ctx, http.MethodHead, target)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{URL: target, Cause: err}
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	tracing.Inject(ctx, req.Header)
	return req, nil
}

func (c *Client) get(ctx context.Context, target string) (_ *http.Response, _ []byte, err error) {
	ctx, span := otel.Tracer(tracing.InstrumentationName).Start(ctx, "source.get", tracing.ClientSpan(http.MethodGet, target)...)
	defer func() { tracing.End(span, err) }()

	req, err := c.newRequest(ctx, http.MethodGet, target)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &RequestError{URL: target, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &RequestError{URL: target, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("request completed",
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), maxErrorBody),
		}
	}
	return resp, body, nil
}

func decodeListing(body []byte) ([]zdenci.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode listing envelope: %w", err)
		}
		if envelope.Data == nil {
			return nil, fmt.Errorf("listing envelope has no data field")
		}
		trimmed = envelope.Data
	}
	return zdenci.DecodeRecords(trimmed)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package typefetch removes the boilerplate of talking to JSON HTTP APIs:
// it assembles headers and bodies from per-call options, issues the request
// through an injectable transport, validates the response status, and
// optionally maps the JSON body into a typed value.
package typefetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/henry781/typefetch/internal/httpx"
	"github.com/henry781/typefetch/internal/requestid"
)

// RequestIDProvider yields the correlation id attached to each outgoing
// request. An empty return value omits the request-id header.
type RequestIDProvider = requestid.Provider

// WithRequestID returns a context carrying a fixed request id; the default
// provider prefers it over generating a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return requestid.WithRequestID(ctx, id)
}

// Config encapsulates the options required to instantiate a Client. The zero
// value is usable: default transport, no-op logger, UUID request ids.
type Config struct {
	// Transport performs the network requests. Defaults to NewTransport over
	// HTTPClient.
	Transport Transport

	// HTTPClient backs the default transport when Transport is unset.
	HTTPClient Doer

	// Logger receives structured debug/error events. Defaults to a no-op.
	Logger *zap.Logger

	// RequestID populates the request-id header. Defaults to the context
	// value when set and a fresh UUID otherwise; a provider returning ""
	// suppresses the header.
	RequestID RequestIDProvider
}

// Client issues HTTP requests built from per-call Options. It holds no
// per-call state, so a single instance is safe for concurrent use.
type Client struct {
	transport Transport
	log       *zap.Logger
	requestID RequestIDProvider
}

// NewClient constructs a Client from the supplied configuration.
func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = NewTransport(cfg.HTTPClient)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := cfg.RequestID
	if provider == nil {
		provider = requestid.Default
	}

	return &Client{
		transport: transport,
		log:       logger.Named("typefetch"),
		requestID: provider,
	}
}

// Do issues a request with an arbitrary method and returns the raw response
// untouched: status, headers and body are all left for the caller, who owns
// closing the body.
func (c *Client) Do(ctx context.Context, method, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, method, uri, opts)
}

// Get issues a GET request and returns the raw response.
func (c *Client) Get(ctx context.Context, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, uri, opts)
}

// Post issues a POST request and returns the raw response.
func (c *Client) Post(ctx context.Context, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, uri, opts)
}

// Put issues a PUT request and returns the raw response.
func (c *Client) Put(ctx context.Context, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, uri, opts)
}

// Patch issues a PATCH request and returns the raw response.
func (c *Client) Patch(ctx context.Context, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, uri, opts)
}

// Delete issues a DELETE request and returns the raw response.
func (c *Client) Delete(ctx context.Context, uri string, opts Options) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, uri, opts)
}

// send runs the full pipeline: build the descriptor, invoke the transport,
// and validate the response status. Failures are never retried here; retry
// policy belongs to the transport.
func (c *Client) send(ctx context.Context, method, uri string, opts Options) (*http.Response, error) {
	desc, err := c.build(ctx, method, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Send(ctx, uri, desc)
	if err != nil {
		c.log.Error("request execution failed",
			zap.String("method", method),
			zap.String("uri", uri),
			zap.Error(err))
		return nil, newTransportError(err)
	}

	expected := opts.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}

	if resp.StatusCode != expected {
		body := c.readMismatchBody(resp)
		c.log.Error("unexpected response status",
			zap.String("uri", uri),
			zap.Int("expected", expected),
			zap.Int("actual", resp.StatusCode))
		return nil, newStatusError(expected, uri, resp.StatusCode, body)
	}

	return resp, nil
}

// readMismatchBody drains the response body of a failed call and returns its
// JSON value when it parses, the raw text otherwise.
func (c *Client) readMismatchBody(resp *http.Response) any {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Debug("failed to read error response body", zap.Error(err))
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.log.Debug("error response body is not json, keeping raw text", zap.Error(err))
		return string(raw)
	}
	return parsed
}

// decodeBody reads and decodes a successful JSON response body.
func decodeBody(resp *http.Response) (any, error) {
	defer resp.Body.Close()

	var raw any
	if err := httpx.DecodeJSON(resp, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

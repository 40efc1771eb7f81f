package typefetch

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/henry781/typefetch/internal/mapper"
)

// DoJSON issues a request and maps the JSON response body into T. With a
// custom Deserializer its result is asserted to T; otherwise the structured
// deserializer maps the raw value into T, and when T is any the raw decoded
// value is returned unchanged. Decode and mapping failures on a matching
// status propagate as plain errors, not as *ClientError.
func DoJSON[T any](ctx context.Context, c *Client, method, uri string, opts Options) (T, error) {
	var zero T

	resp, err := c.send(ctx, method, uri, opts)
	if err != nil {
		return zero, err
	}

	raw, err := decodeBody(resp)
	if err != nil {
		c.log.Debug("response body decode failed", zap.String("uri", uri), zap.Error(err))
		return zero, err
	}

	if opts.Deserializer != nil {
		mapped, err := opts.Deserializer(raw)
		if err != nil {
			c.log.Debug("custom deserializer failed", zap.String("uri", uri), zap.Error(err))
			return zero, fmt.Errorf("deserialize response: %w", err)
		}
		typed, ok := mapped.(T)
		if !ok {
			c.log.Debug("custom deserializer returned unexpected type", zap.String("uri", uri))
			return zero, fmt.Errorf("deserializer returned %T, want %T", mapped, zero)
		}
		return typed, nil
	}

	var out T
	if target, ok := any(&out).(*any); ok {
		*target = raw
		return out, nil
	}
	if err := mapper.Deserialize(raw, &out); err != nil {
		c.log.Debug("structured deserialization failed", zap.String("uri", uri), zap.Error(err))
		return zero, err
	}
	return out, nil
}

// GetJSON issues a GET request and maps the JSON response body into T.
func GetJSON[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return DoJSON[T](ctx, c, http.MethodGet, uri, opts)
}

// PostJSON issues a POST request and maps the JSON response body into T.
func PostJSON[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPost, uri, opts)
}

// PutJSON issues a PUT request and maps the JSON response body into T.
func PutJSON[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPut, uri, opts)
}

// PatchJSON issues a PATCH request and maps the JSON response body into T.
func PatchJSON[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPatch, uri, opts)
}

// DeleteJSON issues a DELETE request and maps the JSON response body into T.
func DeleteJSON[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return DoJSON[T](ctx, c, http.MethodDelete, uri, opts)
}

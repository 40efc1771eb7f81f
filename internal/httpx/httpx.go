package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Doer represents the subset of http.Client used across the module. It is
// intentionally small so callers can supply custom transports (for example to
// inject tracing, retries, or record fixtures in tests).
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewRequest creates an HTTP request bound to the supplied context from a set
// of pre-assembled headers and an optional body. A nil body means the request
// carries no body at all, as opposed to an empty one.
func NewRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// DecodeJSON unmarshals the provided HTTP response body into the supplied
// target. It expects the caller to close resp.Body when finished.
func DecodeJSON(resp *http.Response, target any) error {
	if target == nil {
		return fmt.Errorf("decode target must be non-nil")
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

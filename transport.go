package typefetch

import (
	"context"
	"net/http"
	"time"

	"github.com/henry781/typefetch/internal/httpx"
	"github.com/henry781/typefetch/version"
)

// DefaultHTTPTimeout controls the default HTTP client timeout if none is provided.
const DefaultHTTPTimeout = 30 * time.Second

// Doer represents the subset of http.Client accepted by the default transport.
type Doer = httpx.Doer

// Transport performs the actual network request for a built descriptor.
// Retries, timeouts and cancellation all live behind this interface; the
// client itself never retries.
type Transport interface {
	Send(ctx context.Context, uri string, req Descriptor) (*http.Response, error)
}

type httpTransport struct {
	doer Doer
}

// NewTransport returns the default Transport over the given Doer. A nil Doer
// falls back to an http.Client with DefaultHTTPTimeout.
func NewTransport(doer Doer) Transport {
	if doer == nil {
		doer = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &httpTransport{doer: doer}
}

func (t *httpTransport) Send(ctx context.Context, uri string, desc Descriptor) (*http.Response, error) {
	req, err := httpx.NewRequest(ctx, desc.Method, uri, desc.Headers, desc.Body)
	if err != nil {
		return nil, err
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}
	return t.doer.Do(req)
}

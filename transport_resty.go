package typefetch

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// restyTransport adapts a resty.Client to the Transport interface.
type restyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps a resty.Client as a Transport. The client is used
// as-is and never reconfigured, so it can keep serving the caller's own
// requests. Response bodies are buffered by resty and handed back on the raw
// response. A nil client gets a fresh one with DefaultHTTPTimeout.
func NewRestyTransport(client *resty.Client) Transport {
	if client == nil {
		client = resty.New().SetTimeout(DefaultHTTPTimeout)
	}
	return &restyTransport{client: client}
}

func (t *restyTransport) Send(ctx context.Context, uri string, desc Descriptor) (*http.Response, error) {
	req := t.client.R().SetContext(ctx)
	if len(desc.Headers) > 0 {
		req.SetHeaders(desc.Headers)
	}
	if desc.Body != nil {
		req.SetBody(desc.Body)
	}

	resp, err := req.Execute(desc.Method, uri)
	if err != nil {
		return nil, err
	}

	// resty drains the body while executing; restore it so the raw response
	// reaches the caller intact.
	raw := resp.RawResponse
	raw.Body = io.NopCloser(bytes.NewReader(resp.Body()))
	return raw, nil
}

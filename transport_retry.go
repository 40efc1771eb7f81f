package typefetch

import (
	"github.com/hashicorp/go-retryablehttp"
)

// NewRetryTransport wraps a retryablehttp.Client as a Transport, giving
// requests automatic retries with backoff without the client itself knowing
// about them. A nil client gets retryablehttp defaults with logging disabled.
func NewRetryTransport(client *retryablehttp.Client) Transport {
	if client == nil {
		client = retryablehttp.NewClient()
		client.Logger = nil
	}
	return NewTransport(client.StandardClient())
}

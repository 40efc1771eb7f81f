// Package requestid supplies correlation identifiers for outgoing requests.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Provider yields the request id for one outgoing call. An empty return value
// means no correlation header is attached.
type Provider func(ctx context.Context) string

type ctxKey struct{}

// WithRequestID returns a context carrying the given request id so that all
// calls issued under it share one correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id carried by the context, if any.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Default returns the context-carried request id when present and otherwise
// generates a fresh UUID per call.
func Default(ctx context.Context) string {
	if id := FromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// None never yields a request id; install it to suppress the correlation
// header entirely.
func None(context.Context) string {
	return ""
}

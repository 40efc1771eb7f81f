package requestid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFromContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	require.Equal(t, "req-123", FromContext(ctx))
}

func TestFromContextEmpty(t *testing.T) {
	require.Equal(t, "", FromContext(context.Background()))
}

func TestDefaultPrefersContextValue(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-456")
	require.Equal(t, "req-456", Default(ctx))
}

func TestDefaultGeneratesUUID(t *testing.T) {
	id := Default(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	// Each call without a context id gets a fresh identifier.
	require.NotEqual(t, id, Default(context.Background()))
}

func TestNone(t *testing.T) {
	require.Equal(t, "", None(WithRequestID(context.Background(), "req-789")))
}

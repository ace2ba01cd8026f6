package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug", "development"))
	assert.True(t, Get().Core().Enabled(zap.DebugLevel))

	require.NoError(t, Init("bogus", "production"))
	assert.False(t, Get().Core().Enabled(zap.DebugLevel))
	assert.True(t, Get().Core().Enabled(zap.InfoLevel))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))
	defer Set(nil)

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	WithContext(ctx).Info("hello", Symbol("AAPL"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "AAPL", fields["symbol"])
}

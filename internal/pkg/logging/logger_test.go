package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	WithTrace(zap.New(core), "trace-1", "span-1").Info("msg")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "span-1", fields["span_id"])
}

func TestWithTraceDefaults(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	WithTrace(zap.New(core), "", "").Info("msg")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "unknown", fields["trace_id"])
	assert.Equal(t, "unknown", fields["span_id"])
}

func TestContextRoundTrip(t *testing.T) {
	logger := zap.NewNop()

	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, FromContext(nil))
}

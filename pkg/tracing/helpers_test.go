package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestTraceMethod(t *testing.T) {
	err := TraceMethod(context.Background(), "MessageSender", "SendTemplate", func(ctx context.Context) error {
		span := trace.FromContext(ctx)
		assert.NotNil(t, span)
		return nil
	})
	require.NoError(t, err)

	wantErr := errors.New("boom")
	err = TraceMethod(context.Background(), "MessageSender", "SendTemplate", func(ctx context.Context) error {
		return wantErr
	})
	assert.Equal(t, wantErr, err)
}

func TestTraceMethodWithResult(t *testing.T) {
	result, err := TraceMethodWithResult(context.Background(), "TenantRouter", "GetWorkspaceByPhoneID", func(ctx context.Context) (string, error) {
		return "ws1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ws1", result)
}

func TestWrapHTTPClientNil(t *testing.T) {
	client := WrapHTTPClient(nil)
	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.Timeout)
	assert.NotNil(t, client.Transport)
}

func TestWrapHTTPClientPreservesTimeout(t *testing.T) {
	base := &http.Client{Timeout: 10 * time.Second}
	client := WrapHTTPClient(base)
	assert.Equal(t, 10*time.Second, client.Timeout)
}

func TestAddAttributeWithoutSpan(t *testing.T) {
	// must not panic without a span in context
	AddAttribute(context.Background(), "k", "v")
	MarkSpanError(context.Background(), errors.New("x"))
	MarkSpanError(context.Background(), nil)
}

func TestDefaultTracer(t *testing.T) {
	tracer := NewTracer()
	ctx, span := tracer.StartSpan(context.Background(), "test")
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	tracer.EndSpan(span, nil)

	assert.NotNil(t, GetTracer())
}

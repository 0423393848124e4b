package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "req-123")
	logger.WithCorrelationID(ctx).Info("signup received")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-123", line["correlation_id"])
	assert.Equal(t, "signup received", line["msg"])
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewDiscardLogger()
	ctx := ContextWithLogger(context.Background(), injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, NewDiscardLogger()))
}

func TestGetLoggerInstanceFromContext_FallsBack(t *testing.T) {
	fallback := NewDiscardLogger()

	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, fallback, GetLoggerInstanceFromContext(nil, fallback))
	assert.NotNil(t, GetLoggerInstanceFromContext(context.Background(), fallback))
}

func TestLevelFromEnv(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, levelFromEnv("DEBUG"))
	assert.Equal(t, slog.LevelWarn, levelFromEnv("warning"))
	assert.Equal(t, slog.LevelInfo, levelFromEnv(""))
}

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithLogger(context.Background(), logger)
	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Debug("hello", "component", "text")
	assert.Contains(t, buf.String(), "component=text")
}

func TestFromContext_FallsBackToDiscard(t *testing.T) {
	got := FromContext(context.Background())
	require.NotNil(t, got)
	assert.False(t, got.Enabled(context.Background(), slog.LevelError))
}

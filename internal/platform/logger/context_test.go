package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvollan/identity-api/internal/config"
	"github.com/pvollan/identity-api/internal/platform/logger"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		stored := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("empty context falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})

	t.Run("context logger carries its attributes", func(t *testing.T) {
		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil)).With("trace_id", "abc123")
		ctx := logger.WithLogger(context.Background(), base)

		logger.FromContext(ctx).Info("processing request")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "abc123", record["trace_id"])
		assert.Equal(t, "processing request", record["msg"])
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("prefers the context logger", func(t *testing.T) {
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("falls back to the given default", func(t *testing.T) {
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil default falls back to the global logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
	})
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		check    slog.Level
		enabled  bool
	}{
		{"debug level enables debug", "debug", slog.LevelDebug, true},
		{"info level disables debug", "info", slog.LevelDebug, false},
		{"warn level disables info", "warn", slog.LevelInfo, false},
		{"error level enables error", "error", slog.LevelError, true},
		{"unknown level falls back to info", "verbose", slog.LevelInfo, true},
		{"levels are case-insensitive", "DEBUG", slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.Equal(t, tt.enabled, log.Enabled(context.Background(), tt.check))
		})
	}
}

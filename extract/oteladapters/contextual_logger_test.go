package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/esqproject/esq/extract/oteladapters"
)

func Test_NewSlogBridgeLogger_Construction(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("test")
	assert.NotNil(t, logger, "NewSlogBridgeLogger should return non-nil logger")
}

func Test_NewSlogBridgeLoggerWithHandler_Construction(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	assert.NotNil(t, logger, "NewSlogBridgeLoggerWithHandler should return non-nil logger")
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug, // Capture all levels
	})

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message", "level", "debug")
	logger.InfoContext(ctx, "info message", "level", "info")
	logger.WarnContext(ctx, "warn message", "level", "warn")
	logger.ErrorContext(ctx, "error message", "level", "error")

	output := buf.String()

	assert.Contains(t, output, "debug message", "Debug message should be logged")
	assert.Contains(t, output, "info message", "Info message should be logged")
	assert.Contains(t, output, "warn message", "Warn message should be logged")
	assert.Contains(t, output, "error message", "Error message should be logged")
}

func Test_SlogBridgeLogger_WithAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)

	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	logger.InfoContext(ctx, "search executed",
		"hit_count", 42,
		"duration_ms", 3.14,
		"mode", "follow",
	)

	output := buf.String()

	assert.Contains(t, output, "search executed", "Message should be logged")
	assert.Contains(t, output, `"hit_count":42`, "Int attribute should be logged")
	assert.Contains(t, output, `"duration_ms":3.14`, "Float attribute should be logged")
	assert.Contains(t, output, `"mode":"follow"`, "String attribute should be logged")
}

func Test_NewOTelLogger_Construction(t *testing.T) {
	provider := noop.NewLoggerProvider()
	logger := oteladapters.NewOTelLogger(provider.Logger("test"))

	assert.NotNil(t, logger, "NewOTelLogger should return non-nil logger")
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	provider := noop.NewLoggerProvider()
	logger := oteladapters.NewOTelLogger(provider.Logger("test"))
	ctx := context.Background()

	// The noop provider discards records; this verifies emission does not panic
	// for any level or attribute shape.
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "key", "value")
		logger.InfoContext(ctx, "info message", "count", 7)
		logger.WarnContext(ctx, "warn message")
		logger.ErrorContext(ctx, "error message", "error", "boom")
	})
}

func Test_OTelLogger_OddArgsAreIgnored(t *testing.T) {
	provider := noop.NewLoggerProvider()
	logger := oteladapters.NewOTelLogger(provider.Logger("test"))

	// A trailing key without a value must not panic.
	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "dangling_key")
	})
}

package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"

	"github.com/AntonStoeckl/property-kit-go/oteladapters"
)

// recordingLogger is an otel log.Logger that keeps every emitted record.
type recordingLogger struct {
	embedded.Logger
	records []otellog.Record
}

func (l *recordingLogger) Emit(_ context.Context, record otellog.Record) {
	l.records = append(l.records, record.Clone())
}

func (l *recordingLogger) Enabled(context.Context, otellog.EnabledParameters) bool {
	return true
}

func Test_SlogBridgeLoggerWithHandler_AllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message", "key", "title")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message"`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message","key":"title"`)
}

func Test_NewSlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	// setup
	logger := oteladapters.NewSlogBridgeLogger("test")

	// act + assert
	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "no provider configured", "key", "title")
	})
}

func Test_OTelLogger_EmitsRecords(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message", "key", "title", "found", true)
	logger.InfoContext(ctx, "info message", "count", 3)
	logger.WarnContext(ctx, "warn message", "ratio", 0.5)
	logger.ErrorContext(ctx, "error message", "dangling")

	// assert
	require.Len(t, recorder.records, 4)

	assert.Equal(t, otellog.SeverityDebug, recorder.records[0].Severity())
	assert.Equal(t, "debug message", recorder.records[0].Body().AsString())
	assert.Equal(t, 2, recorder.records[0].AttributesLen())

	assert.Equal(t, otellog.SeverityInfo, recorder.records[1].Severity())
	assert.Equal(t, otellog.SeverityWarn, recorder.records[2].Severity())
	assert.Equal(t, otellog.SeverityError, recorder.records[3].Severity())
	assert.Equal(t, 0, recorder.records[3].AttributesLen(), "a key without value is dropped")

	attrs := make(map[string]otellog.Value)
	recorder.records[0].WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})
	assert.Equal(t, "title", attrs["key"].AsString())
	assert.True(t, attrs["found"].AsBool())
}

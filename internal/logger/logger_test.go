package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trading-journal-stats/internal/trace"
)

func observe(t *testing.T, detailed bool) *observer.ObservedLogs {
	t.Helper()
	prev, prevDetailed := globalLogger, detailedLogging
	t.Cleanup(func() { globalLogger, detailedLogging = prev, prevDetailed })

	detailedLogging = detailed
	core, logs := observer.New(zap.DebugLevel)
	SetCore(core)
	return logs
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("LOG_DETAILED", "true")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, LogConfig{Level: "DEBUG", Format: "console", DetailedLogging: true}, cfg)
}

func TestInfoWritesFields(t *testing.T) {
	logs := observe(t, false)

	Info(context.Background(), "Deals collected", "count", 3, "source", "html")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Deals collected", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, int64(3), entry.ContextMap()["count"])
	assert.Equal(t, "html", entry.ContextMap()["source"])
}

func TestDebugNeedsDetailedLogging(t *testing.T) {
	logs := observe(t, false)
	Debug(context.Background(), "hidden")
	DebugSkip(context.Background(), 1, "hidden too")
	assert.Zero(t, logs.Len())

	logs = observe(t, true)
	Debug(context.Background(), "shown")
	assert.Equal(t, 1, logs.FilterMessage("shown").Len())
}

func TestErrorWithErr(t *testing.T) {
	logs := observe(t, false)

	ErrorWithErr(context.Background(), "Parse failed", errors.New("bad number"), "line", 4)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "bad number", fields["error"])
	assert.Equal(t, int64(4), fields["line"])
}

func TestDanglingKey(t *testing.T) {
	logs := observe(t, false)

	Warn(context.Background(), "odd args", "only-key")
	Warn(context.Background(), "non-string key", 42)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "only-key", entries[0].ContextMap()["!BADKEY"])
	assert.Equal(t, int64(42), entries[1].ContextMap()["!BADKEY"])
}

func TestMalformedMessage(t *testing.T) {
	logs := observe(t, false)

	MalformedMessage(context.Background(), 17, "#Forex\nbroken", errors.New("missing token"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "MALFORMED", entry.ContextMap()["type"])
	assert.Equal(t, int64(17), entry.ContextMap()["message_id"])
	assert.Equal(t, "#Forex\nbroken", entry.ContextMap()["text"])
}

func TestOperationTimer(t *testing.T) {
	logs := observe(t, false)

	op := StartOperation(context.Background(), "pipeline.Run", "intervals", 2)
	op.End("deals", 5)
	assert.Zero(t, logs.Len())

	op = StartOperation(context.Background(), "pipeline.Run")
	op.EndWithError(errors.New("source unavailable"))

	failed := logs.FilterMessage("Operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "pipeline.Run", failed[0].ContextMap()["operation"])
	assert.Equal(t, "source unavailable", failed[0].ContextMap()["error"])
}

func TestTraceFieldsAttached(t *testing.T) {
	logs := observe(t, false)

	recorder := tracetest.NewSpanRecorder()
	require.NoError(t, trace.InitWithSpanProcessor(recorder))
	t.Cleanup(func() { _ = trace.Shutdown(context.Background()) })

	op := StartOperation(context.Background(), "report")
	Info(op.GetContext(), "inside span")
	op.EndWithError(errors.New("boom"))

	entry := logs.FilterMessage("inside span").All()[0]
	assert.NotEmpty(t, entry.ContextMap()["trace_id"])
	assert.NotEmpty(t, entry.ContextMap()["span_id"])

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report", spans[0].Name())
	assert.Len(t, spans[0].Events(), 1)
}

package trace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledIsNoop(t *testing.T) {
	require.NoError(t, InitWithConfig(Config{}))
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "noop")
	span.End()
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestShutdownClosesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")
	require.NoError(t, InitWithConfig(Config{Enabled: true, Output: path}))
	require.NotNil(t, output)

	ctx, span := StartSpan(context.Background(), "pipeline.Run")
	traceID, _, ok := GetTraceFields(ctx)
	require.True(t, ok)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.Nil(t, output)
	assert.False(t, Enabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline.Run")
	assert.Contains(t, string(data), traceID)

	assert.NoError(t, Shutdown(context.Background()))
}

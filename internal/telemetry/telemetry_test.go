package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesToRotatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := InitLogger(dir, true)
	require.NoError(t, err)

	logger.Debug("debug enabled", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "thinkwhy.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"debug enabled"`)
	require.Contains(t, string(data), `"k":"v"`)
}

func TestInitTelemetry_CleanupFlushes(t *testing.T) {
	dir := t.TempDir()
	tracer, meter, cleanup, err := InitTelemetry(context.Background(), dir)
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), "unit")
	span.End()
	counter, err := meter.Int64Counter("unit.count")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	cleanup()

	traces, err := os.ReadFile(filepath.Join(dir, "thinkwhy_traces.log"))
	require.NoError(t, err)
	require.Contains(t, string(traces), `"Name": "unit"`)

	metrics, err := os.ReadFile(filepath.Join(dir, "thinkwhy_metrics.log"))
	require.NoError(t, err)
	require.Contains(t, string(metrics), "unit.count")
}

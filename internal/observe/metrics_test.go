package observe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	want := attribute.NewSet(attrs...)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if dp.Attributes.Equals(&want) {
					return dp.Value
				}
			}
		}
	}
	return 0
}

func TestRecordAction(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordAction(ctx, "cast_spell", OutcomeCommitted)
	m.RecordAction(ctx, "cast_spell", OutcomeCommitted)
	m.RecordAction(ctx, "cast_spell", OutcomeRejected)

	assert.Equal(t, int64(2), counterValue(t, reader, "rpg_tracker.actions",
		attribute.String("action", "cast_spell"), attribute.String("outcome", OutcomeCommitted)))
	assert.Equal(t, int64(1), counterValue(t, reader, "rpg_tracker.actions",
		attribute.String("action", "cast_spell"), attribute.String("outcome", OutcomeRejected)))
}

func TestRecordToolCall(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordToolCall(context.Background(), "long_rest", "ok")

	assert.Equal(t, int64(1), counterValue(t, reader, "rpg_tracker.tool_calls",
		attribute.String("tool", "long_rest"), attribute.String("status", "ok")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAction(context.Background(), "long_rest", OutcomeChecked)
		m.RecordToolCall(context.Background(), "long_rest", "ok")
	})
}

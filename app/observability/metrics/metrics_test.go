package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewAppMetrics(t *testing.T) {
	m, err := NewAppMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordRequest(ctx, "success")
		m.RecordGeneration(ctx, "gemini-2.0-flash", 1.5, true)
		m.RecordSplit(ctx, "parsed")
		m.RecordGeocode(ctx, "found")
		m.RecordCacheHit(ctx)
	})
}

func TestNilAppMetricsIsNoop(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.RecordRequest(context.Background(), "failure")
		m.RecordCacheHit(context.Background())
	})
}

package fusion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitOTelMetrics_NilMeter(t *testing.T) {
	m, err := initOTelMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	// Recording on nil metrics is a no-op.
	m.record(context.Background(), &Report{})
}

func TestAnalyze_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	e := newTestEngine(t, WithMeter(provider.Meter("fusion-test")))
	_, err := e.Analyze(context.Background(), scanFindings())
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
			if m.Name == "fusion.findings" {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				require.Len(t, sum.DataPoints, 1)
				assert.Equal(t, int64(3), sum.DataPoints[0].Value)
			}
		}
	}
	assert.True(t, names["fusion.exposure_score"])
	assert.True(t, names["fusion.risk_index"])
	assert.True(t, names["fusion.findings"])
}

func TestAnalyze_RecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := newTestEngine(t, WithTracer(tp.Tracer("fusion-test")))
	report, err := e.Analyze(context.Background(), scanFindings())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "fusion.analyze", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "scan-1", attrs["scan.id"].AsString())
	assert.Equal(t, int64(4), attrs["findings.input"].AsInt64())
	assert.Equal(t, int64(3), attrs["findings.output"].AsInt64())
	assert.Equal(t, report.RiskIndex.Level, attrs["risk.level"].AsString())
}

func TestAnalyze_SpanRecordsError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	e := newTestEngine(t, WithTracer(tp.Tracer("fusion-test")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Analyze(ctx, scanFindings())
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

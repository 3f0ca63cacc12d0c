package fusion

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otelMetrics holds the OpenTelemetry metric instruments for the engine.
// These are created once in New and reused for every scan.
type otelMetrics struct {
	// exposureHistogram records entity exposure scores (0 to 100)
	exposureHistogram metric.Float64Histogram

	// riskHistogram records Predictive Risk Index scores (0 to 100)
	riskHistogram metric.Float64Histogram

	// findingsCounter counts de-duplicated findings analyzed
	findingsCounter metric.Int64Counter
}

// initOTelMetrics creates all metric instruments on meter. A nil meter
// yields nil metrics, which record nothing.
func initOTelMetrics(meter metric.Meter) (*otelMetrics, error) {
	if meter == nil {
		return nil, nil
	}

	metrics := &otelMetrics{}
	var err error

	metrics.exposureHistogram, err = meter.Float64Histogram(
		"fusion.exposure_score",
		metric.WithDescription("Entity exposure score from 0 (none) to 100 (severe)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create exposure histogram: %w", err)
	}

	metrics.riskHistogram, err = meter.Float64Histogram(
		"fusion.risk_index",
		metric.WithDescription("Predictive Risk Index from 0 to 100"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create risk histogram: %w", err)
	}

	metrics.findingsCounter, err = meter.Int64Counter(
		"fusion.findings",
		metric.WithDescription("Number of de-duplicated findings analyzed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create findings counter: %w", err)
	}

	return metrics, nil
}

// record stores the scores of a finished report.
func (m *otelMetrics) record(ctx context.Context, r *Report) {
	if m == nil || r == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("risk.level", r.RiskIndex.Level),
	)
	m.exposureHistogram.Record(ctx, r.EntityScore.ExposureScore, opts)
	m.riskHistogram.Record(ctx, r.RiskIndex.Score, opts)
	m.findingsCounter.Add(ctx, int64(len(r.Findings)), opts)
}

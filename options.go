package fusion

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/fusion/config"
)

// Option configures an Engine.
type Option func(*engineConfig)

// engineConfig holds configuration for an Engine instance.
type engineConfig struct {
	cfg    *config.Config
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	now    func() time.Time
	newID  func() string
}

// WithConfig sets the weight tables, priorities and salt the engine uses.
// If not provided, config.Default() is used.
func WithConfig(cfg *config.Config) Option {
	return func(c *engineConfig) {
		c.cfg = cfg
	}
}

// WithLogger sets a custom logger for the engine.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer. Analyze runs inside a
// "fusion.analyze" span when one is set.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for the score histograms and the
// finding counter.
func WithMeter(meter metric.Meter) Option {
	return func(c *engineConfig) {
		c.meter = meter
	}
}

// WithClock sets the time source used for report timestamps, breach
// recency and synthesized carrier findings.
func WithClock(now func() time.Time) Option {
	return func(c *engineConfig) {
		c.now = now
	}
}

// WithIDGenerator sets the function producing scan ids for Analyze.
// If not provided, random UUIDs are used.
func WithIDGenerator(newID func() string) Option {
	return func(c *engineConfig) {
		c.newID = newID
	}
}

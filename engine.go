package fusion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/fusion/behavior"
	"github.com/zero-day-ai/fusion/carrier"
	"github.com/zero-day-ai/fusion/config"
	"github.com/zero-day-ai/fusion/correlate"
	"github.com/zero-day-ai/fusion/finding"
	"github.com/zero-day-ai/fusion/persona"
	"github.com/zero-day-ai/fusion/risk"
	"github.com/zero-day-ai/fusion/score"
)

// Engine runs the fusion pipeline over scan batches. Its tables are fixed
// at construction, so one Engine may serve any number of concurrent scans.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *otelMetrics
	now        func() time.Time
	newID      func() string
	scorer     *score.Scorer
	calculator *risk.Calculator
	correlator *correlate.Correlator
	fuser      *carrier.Fuser
}

// New creates an Engine. It fails when the configuration is invalid or a
// correlation rule does not compile.
func New(opts ...Option) (*Engine, error) {
	ec := &engineConfig{}
	for _, opt := range opts {
		opt(ec)
	}
	if ec.cfg == nil {
		ec.cfg = config.Default()
	}
	if ec.logger == nil {
		ec.logger = slog.Default()
	}
	if ec.now == nil {
		ec.now = time.Now
	}
	if ec.newID == nil {
		ec.newID = uuid.NewString
	}

	if err := ec.cfg.Validate(); err != nil {
		return nil, NewConfigurationError("New", fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	correlator, err := correlate.New(ec.cfg.Correlation)
	if err != nil {
		return nil, NewConfigurationError("New", fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	metrics, err := initOTelMetrics(ec.meter)
	if err != nil {
		return nil, NewInternalError("New", err)
	}

	return &Engine{
		cfg:        ec.cfg,
		logger:     ec.logger,
		tracer:     ec.tracer,
		metrics:    metrics,
		now:        ec.now,
		newID:      ec.newID,
		scorer:     score.NewScorer(ec.cfg.Score),
		calculator: risk.NewCalculator(ec.cfg.Risk, risk.WithClock(ec.now)),
		correlator: correlator,
		fuser:      carrier.NewFuser(ec.cfg.Carrier.Priorities),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Analyze runs the full pipeline over one scan's findings with a fresh
// scan id.
func (e *Engine) Analyze(ctx context.Context, findings []finding.Finding) (*Report, error) {
	return e.AnalyzeScan(ctx, e.newID(), findings)
}

// AnalyzeScan runs the full pipeline over findings: de-duplication, sort,
// correlation, annotation, batch summary, entity score, risk index, persona
// fingerprint and behavioral profile. The input slice is not modified.
//
// Malformed findings never cause an error. The only failures are
// cancellation, a failing correlation rule, and a missing hash primitive.
func (e *Engine) AnalyzeScan(ctx context.Context, scanID string, findings []finding.Finding) (report *Report, err error) {
	const op = "Engine.Analyze"

	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "fusion.analyze",
			trace.WithAttributes(
				attribute.String("scan.id", scanID),
				attribute.Int("findings.input", len(findings)),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetAttributes(
					attribute.Int("findings.output", len(report.Findings)),
					attribute.Int("correlations", len(report.Correlations)),
					attribute.Float64("exposure.score", report.EntityScore.ExposureScore),
					attribute.Float64("risk.score", report.RiskIndex.Score),
					attribute.String("risk.level", report.RiskIndex.Level),
				)
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}()
	}

	if err := ctx.Err(); err != nil {
		return nil, NewCanceledError(op, err)
	}

	logger := e.logger.With("scan_id", scanID)
	e.warnDegraded(logger, findings)

	batch := finding.Sort(finding.Deduplicate(findings))
	logger.Debug("findings normalized", "input", len(findings), "unique", len(batch))

	correlations, err := e.correlator.Correlate(ctx, batch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewCanceledError(op, err)
		}
		return nil, NewInternalError(op, err).WithContext(map[string]any{"scan_id": scanID})
	}
	if correlations == nil {
		correlations = []correlate.Correlation{}
	}
	correlate.Annotate(batch, correlations)
	logger.Debug("findings correlated", "correlations", len(correlations))

	dna, err := e.fingerprint(ctx, op, batch)
	if err != nil {
		return nil, err
	}

	report = &Report{
		ScanID:       scanID,
		GeneratedAt:  e.now().UTC(),
		Findings:     batch,
		Correlations: correlations,
		Summary:      correlate.Summarize(batch, e.cfg.Score),
		EntityScore:  e.scorer.Score(batch),
		RiskIndex:    e.calculator.Calculate(batch),
		Persona:      dna,
		Behavior:     behavior.Build(batch),
	}

	e.metrics.record(ctx, report)
	logger.Debug("scan analyzed",
		"exposure_score", report.EntityScore.ExposureScore,
		"risk_index", report.RiskIndex.Score,
		"risk_level", report.RiskIndex.Level,
		"persona", dna.DNA,
	)
	return report, nil
}

// warnDegraded logs input that the pipeline will coerce.
func (e *Engine) warnDegraded(logger *slog.Logger, findings []finding.Finding) {
	var badSeverity, badConfidence int
	for _, f := range findings {
		if !f.Severity.IsValid() {
			badSeverity++
		}
		if math.IsNaN(f.Confidence) || f.Confidence < 0 || f.Confidence > 1 {
			badConfidence++
		}
	}
	if badSeverity > 0 {
		logger.Warn("findings with unknown severity rank lowest", "count", badSeverity)
	}
	if badConfidence > 0 {
		logger.Warn("finding confidence clamped to [0,1]", "count", badConfidence)
	}
}

func (e *Engine) fingerprint(ctx context.Context, op string, findings []finding.Finding) (persona.DNA, error) {
	dna, err := persona.Compute(ctx, findings, e.cfg.Persona.Salt)
	switch {
	case err == nil:
		return dna, nil
	case errors.Is(err, persona.ErrHashUnavailable):
		return persona.DNA{}, NewHashError(op, err)
	case ctx.Err() != nil:
		return persona.DNA{}, NewCanceledError(op, err)
	default:
		return persona.DNA{}, NewInternalError(op, err)
	}
}

// Fingerprint computes the persona fingerprint of one identity's findings
// with the configured salt.
func (e *Engine) Fingerprint(ctx context.Context, findings []finding.Finding) (persona.DNA, error) {
	return e.fingerprint(ctx, "Engine.Fingerprint", findings)
}

// Profile builds the behavioral profile of one identity's findings.
func (e *Engine) Profile(findings []finding.Finding) behavior.Profile {
	return behavior.Build(findings)
}

// Similarity compares two profiles with the configured weights. The result
// is asymmetric in a and b.
func (e *Engine) Similarity(a, b behavior.Profile) float64 {
	return e.cfg.Similarity.Similarity(a, b)
}

// MergeCarrier fuses carrier observations for phone, composes the risk
// fields and synthesizes the resulting findings. No observations yields an
// empty result without findings.
func (e *Engine) MergeCarrier(ctx context.Context, phone string, observations []carrier.Observation) (*CarrierReport, error) {
	const op = "Engine.MergeCarrier"

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, NewValidationError(op, fmt.Errorf("%w: phone number is required", ErrInvalidInput))
	}
	if err := ctx.Err(); err != nil {
		return nil, NewCanceledError(op, err)
	}

	merged := e.fuser.ApplyRisk(e.fuser.Merge(observations), observations)
	out := &CarrierReport{Phone: phone, Merged: merged, Findings: []finding.Finding{}}
	if len(observations) == 0 {
		return out, nil
	}

	now := e.now().UTC()
	out.Findings = append(out.Findings, carrier.MergedFinding(phone, merged, now))
	out.Findings = append(out.Findings, carrier.RiskFindings(phone, merged, now)...)

	e.logger.Debug("carrier observations merged",
		"sources", merged.SourceCount,
		"conflicts", len(merged.ConflictResolutions),
		"confidence", merged.OverallConfidence,
	)
	return out, nil
}

// Package fusion is the derivation layer of an OSINT scanning pipeline. It
// turns the normalized findings of one scan into de-duplicated, correlated
// findings, an entity exposure score, a Predictive Risk Index, a persona
// fingerprint and a behavioral profile, and fuses phone carrier
// observations from several providers into one record.
//
// Every computation is a pure function of its input and the engine's
// configuration. Nothing here performs I/O; the queue and worker packages
// provide an optional Redis transport around the engine.
//
// # Getting Started
//
//	engine, err := fusion.New(
//		fusion.WithLogger(logger),
//		fusion.WithTracer(otel.Tracer("fusion")),
//	)
//	if err != nil {
//		return err
//	}
//	report, err := engine.Analyze(ctx, findings)
//
// # Packages
//
//   - finding: the canonical Finding model, de-duplication, ordering, filters, export
//   - carrier: phone carrier fusion with consensus and priority resolution
//   - behavior: behavioral profiles and their (asymmetric) similarity
//   - persona: salted SHA-256 persona fingerprints
//   - score: per-entity exposure and confidence scores
//   - risk: the Predictive Risk Index
//   - correlate: correlation passes, CEL rules and the batch summary
//   - config: YAML configuration of all tables
//   - queue: Redis job queue carrying scan batches and reports
//   - worker: queue consumer that runs an Engine per job
//   - health: readiness checks used by the worker and the CLI
//
// # Error Handling
//
// Malformed findings are coerced, never rejected. Errors that do surface are
// *Error values carrying a Kind:
//
//	if errors.Is(err, persona.ErrHashUnavailable) { ... }
//	var fe *fusion.Error
//	if errors.As(err, &fe) && fe.Kind == fusion.KindHash { ... }
package fusion

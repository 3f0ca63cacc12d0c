// Package risk computes the Predictive Risk Index (PRI) of a scan: a
// 0-100 score built from five weighted categories (data breaches,
// vulnerabilities, username reuse, platform exposure diversity and
// suspicious adjacency) plus a short remediation recommendation.
//
// The clock used for breach recency is injectable:
//
//	calc := risk.NewCalculator(risk.DefaultConfig(), risk.WithClock(func() time.Time { return fixed }))
//	idx := calc.Calculate(findings)
package risk

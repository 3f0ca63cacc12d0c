// Package finding defines the canonical record shared by every fusion
// component: the Finding, its Evidence, and the total order over severities.
//
// Upstream normalizers map raw provider responses into Findings. Everything
// in this module consumes them read-only, except correlation which appends
// related ids.
//
// # Ordering
//
// Severities are totally ordered critical > high > medium > low > info.
// Sort orders by severity rank, then confidence, and is stable, so findings
// that tie keep their input order. Deduplicate keeps the highest-confidence
// observation per id.
//
// # Filtering
//
// FilterByTags, FilterBySeverity and FilterByProvider are pure projections.
// An empty filter list means no filtering, not "match nothing".
//
// Example usage:
//
//	findings = finding.Sort(finding.Deduplicate(findings))
//	critical := finding.FilterBySeverity(findings, finding.SeverityCritical)
//
//	if err := finding.Export(os.Stdout, critical, finding.FormatCSV); err != nil {
//		log.Fatal(err)
//	}
package finding

package finding

import "fmt"

// Severity represents the severity level of a finding.
type Severity string

const (
	// SeverityCritical indicates exposure requiring immediate action.
	// Examples: plaintext passwords in a recent breach, active account takeover signals
	SeverityCritical Severity = "critical"

	// SeverityHigh indicates a high-impact exposure.
	// Examples: hashed credentials in a breach, phone tied to fraud reports
	SeverityHigh Severity = "high"

	// SeverityMedium indicates a moderate exposure.
	// Examples: open ports on a personal IP, people-search listings
	SeverityMedium Severity = "medium"

	// SeverityLow indicates a minor exposure.
	// Examples: VoIP line detected, public social profile
	SeverityLow Severity = "low"

	// SeverityInfo indicates an informational observation without direct risk.
	SeverityInfo Severity = "info"
)

// severityRanks is the fixed total order critical > high > medium > low > info.
// Unknown severities rank 0 and therefore sort after info.
var severityRanks = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the position of the severity in the total order.
// Returns 0 for invalid severity levels.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// CompareSeverity compares two severity levels.
// Returns:
//   - negative if s1 < s2
//   - zero if s1 == s2
//   - positive if s1 > s2
func CompareSeverity(s1, s2 Severity) int {
	return s1.Rank() - s2.Rank()
}

// AllSeverities returns all valid severity levels in order from critical to info.
func AllSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
		SeverityInfo,
	}
}

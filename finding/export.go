package finding

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting findings.
type ExportFormat string

const (
	// FormatJSON exports findings as a JSON array.
	FormatJSON ExportFormat = "json"

	// FormatCSV exports findings as comma-separated values, one row per finding.
	FormatCSV ExportFormat = "csv"
)

// IsValid returns true if the export format is valid.
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the export format.
func (f ExportFormat) String() string {
	return string(f)
}

// FileExtension returns the file extension for the export format.
func (f ExportFormat) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	default:
		return ""
	}
}

// ParseExportFormat parses a string into an ExportFormat value.
// Returns an error if the string is not a valid export format.
func ParseExportFormat(s string) (ExportFormat, error) {
	format := ExportFormat(s)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid export format: %s", s)
	}
	return format, nil
}

var csvHeader = []string{
	"id", "type", "severity", "confidence", "provider", "provider_category",
	"title", "tags", "related_to", "observed_at", "type_name",
}

// Export writes findings to w in the requested format.
func Export(w io.Writer, findings []Finding, format ExportFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if findings == nil {
			findings = []Finding{}
		}
		if err := enc.Encode(findings); err != nil {
			return fmt.Errorf("encode findings: %w", err)
		}
		return nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		for _, f := range findings {
			observed := ""
			if !f.ObservedAt.IsZero() {
				observed = f.ObservedAt.UTC().Format(time.RFC3339)
			}
			row := []string{
				f.ID,
				string(f.Type),
				string(f.Severity),
				strconv.FormatFloat(f.Confidence, 'f', 2, 64),
				f.Provider,
				f.ProviderCategory,
				f.Title,
				strings.Join(f.Tags, ";"),
				strings.Join(f.RelatedTo, ";"),
				observed,
				f.Type.DisplayName(),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row %s: %w", f.ID, err)
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("invalid export format: %s", format)
	}
}

// Filter represents criteria for filtering findings.
// Zero-valued fields do not filter.
type Filter struct {
	// Types filters by one or more finding types.
	Types []Type `json:"types,omitempty" yaml:"types,omitempty"`

	// Severities filters by one or more severity levels.
	Severities []Severity `json:"severities,omitempty" yaml:"severities,omitempty"`

	// Providers filters by provider name (case-insensitive).
	Providers []string `json:"providers,omitempty" yaml:"providers,omitempty"`

	// Tags filters by tags (finding must have at least one matching tag).
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// MinConfidence filters findings with confidence >= this value.
	MinConfidence float64 `json:"min_confidence,omitempty" yaml:"min_confidence,omitempty"`

	// ObservedAfter filters findings observed after this time.
	ObservedAfter time.Time `json:"observed_after,omitempty" yaml:"observed_after,omitempty"`

	// ObservedBefore filters findings observed before this time.
	ObservedBefore time.Time `json:"observed_before,omitempty" yaml:"observed_before,omitempty"`

	// Limit limits the number of results returned.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Offset skips the first N results (for pagination).
	Offset int `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Matches returns true if the given finding matches all filter criteria.
func (f *Filter) Matches(finding Finding) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, finding.Type) {
		return false
	}
	if len(FilterBySeverity([]Finding{finding}, f.Severities...)) == 0 {
		return false
	}
	if len(FilterByProvider([]Finding{finding}, f.Providers...)) == 0 {
		return false
	}
	if len(FilterByTags([]Finding{finding}, f.Tags...)) == 0 {
		return false
	}
	if f.MinConfidence > 0 && finding.Confidence < f.MinConfidence {
		return false
	}
	if !f.ObservedAfter.IsZero() && finding.ObservedAt.Before(f.ObservedAfter) {
		return false
	}
	if !f.ObservedBefore.IsZero() && finding.ObservedAt.After(f.ObservedBefore) {
		return false
	}
	return true
}

// Apply returns the findings matching the filter, honoring Offset and Limit.
func (f *Filter) Apply(findings []Finding) []Finding {
	out := filter(findings, func(fd *Finding) bool { return f.Matches(*fd) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []Finding{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

// Validate checks if the filter configuration is valid.
func (f *Filter) Validate() error {
	for _, sev := range f.Severities {
		if !sev.IsValid() {
			return fmt.Errorf("invalid severity in filter: %s", sev)
		}
	}
	if f.MinConfidence < 0 || f.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0.0 and 1.0")
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if f.Offset < 0 {
		return fmt.Errorf("offset cannot be negative")
	}
	if !f.ObservedAfter.IsZero() && !f.ObservedBefore.IsZero() && f.ObservedAfter.After(f.ObservedBefore) {
		return fmt.Errorf("observed_after must be before observed_before")
	}
	return nil
}

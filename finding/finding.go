package finding

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Finding is one normalized observation from a single OSINT provider about a
// single entity. Findings are produced by per-provider normalizers and are
// read-only for every fusion component except correlation, which may append
// to RelatedTo.
type Finding struct {
	// ID is a stable identifier built from provider, kind and a disambiguator.
	// Uniqueness is enforced by Deduplicate, not by producers.
	ID string `json:"id"`

	// Type classifies the finding.
	Type Type `json:"type"`

	// Title is a brief summary of the finding.
	Title string `json:"title"`

	// Description provides detailed information about the finding.
	Description string `json:"description"`

	// Severity indicates the severity level of the finding.
	Severity Severity `json:"severity"`

	// Confidence represents the confidence level (0.0 to 1.0) in the finding.
	Confidence float64 `json:"confidence"`

	// Provider is the source that produced the finding.
	Provider string `json:"provider"`

	// ProviderCategory groups providers (e.g. "Breach Intelligence").
	ProviderCategory string `json:"providerCategory,omitempty"`

	// Evidence contains the ordered facts supporting the finding.
	Evidence []Evidence `json:"evidence,omitempty"`

	// Impact explains what the exposure means for the subject.
	Impact string `json:"impact,omitempty"`

	// Remediation lists recommended actions.
	Remediation []string `json:"remediation,omitempty"`

	// Tags are arbitrary labels for categorization and filtering.
	Tags []string `json:"tags,omitempty"`

	// RelatedTo lists ids of correlated findings in the same scan.
	RelatedTo []string `json:"relatedTo,omitempty"`

	// ObservedAt is when the provider observed the fact.
	ObservedAt time.Time `json:"observedAt"`

	// ExpiresAt is when the observation should no longer be trusted.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`

	// URL links to the source record, when there is one.
	URL string `json:"url,omitempty"`

	// Raw carries the provider payload untouched.
	Raw json.RawMessage `json:"raw,omitempty"`
}

var idUnsafe = regexp.MustCompile(`[^a-z0-9@.+:\-]+`)

// GenerateID builds the stable finding id for a provider, a finding kind and
// a disambiguator (usually the scanned entity).
func GenerateID(provider, kind, disambiguator string) string {
	parts := []string{provider, kind, disambiguator}
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		p = idUnsafe.ReplaceAllString(p, "_")
		parts[i] = strings.Trim(p, "_")
	}
	return strings.Join(parts, "_")
}

// NewFinding creates a new Finding with a generated id, full confidence and
// the given observation time.
func NewFinding(provider, kind, disambiguator string, findingType Type, severity Severity, title string, observedAt time.Time) Finding {
	return Finding{
		ID:         GenerateID(provider, kind, disambiguator),
		Type:       findingType,
		Title:      title,
		Severity:   severity,
		Confidence: 1.0,
		Provider:   provider,
		ObservedAt: observedAt,
	}
}

// Validate checks if the finding has all required fields and valid values.
// The fusion components never call Validate: they coerce instead. It exists
// for producers that want to reject records at the edge.
func (f *Finding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("finding ID is required")
	}
	if f.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if f.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !f.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", f.Severity)
	}
	if math.IsNaN(f.Confidence) || f.Confidence < 0.0 || f.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", f.Confidence)
	}
	if f.ObservedAt.IsZero() {
		return fmt.Errorf("observedAt timestamp is required")
	}
	return nil
}

// Normalize returns a copy with confidence clamped to [0,1]. NaN becomes 0.
func (f Finding) Normalize() Finding {
	f.Confidence = ClampConfidence(f.Confidence)
	return f
}

// ClampConfidence clamps c to [0,1], mapping NaN to 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// EvidenceValues returns the string values of evidence entries whose key
// matches one of keys (case-insensitive), skipping absent or Unknown values.
func (f *Finding) EvidenceValues(keys ...string) []string {
	var out []string
	for _, ev := range f.Evidence {
		for _, k := range keys {
			if !strings.EqualFold(ev.Key, k) {
				continue
			}
			if !ev.IsUnknown() {
				out = append(out, ev.AsString())
			}
			break
		}
	}
	return out
}

// HasTag reports whether the finding carries tag.
func (f *Finding) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag to the finding if it doesn't already exist.
func (f *Finding) AddTag(tag string) {
	if f.HasTag(tag) {
		return
	}
	f.Tags = append(f.Tags, tag)
}

// AddRelated records a correlated finding id once.
func (f *Finding) AddRelated(id string) {
	if id == "" || id == f.ID {
		return
	}
	for _, existing := range f.RelatedTo {
		if existing == id {
			return
		}
	}
	f.RelatedTo = append(f.RelatedTo, id)
}

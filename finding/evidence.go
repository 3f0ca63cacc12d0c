package finding

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unknown is the placeholder value used for absent or unusable evidence.
const Unknown = "Unknown"

// Evidence is a key/value fact attached to a finding.
// Value is opaque to the fusion layer: it is normally a string, number or
// boolean, and components that pattern-match a key coerce it with the As*
// helpers instead of asserting on its type.
type Evidence struct {
	// Key names the fact (e.g. "username", "bio", "Carrier").
	Key string `json:"key"`

	// Value holds the fact itself.
	Value any `json:"value"`

	// Metadata contains additional context-specific information.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewEvidence creates a new Evidence entry.
func NewEvidence(key string, value any) Evidence {
	return Evidence{Key: key, Value: value}
}

// WithMetadata adds metadata to the evidence.
func (e Evidence) WithMetadata(key string, value any) Evidence {
	md := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// AsString renders the value as a string. Nil values yield "".
func (e Evidence) AsString() string {
	switch v := e.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// AsFloat coerces the value to a number. Non-numeric values yield 0.
func (e Evidence) AsFloat() float64 {
	var f float64
	switch v := e.Value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// AsBool coerces the value to a boolean. Unrecognized values yield false.
func (e Evidence) AsBool() bool {
	switch v := e.Value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// IsUnknown reports whether the value is absent, empty or the Unknown placeholder.
func (e Evidence) IsUnknown() bool {
	s := strings.TrimSpace(e.AsString())
	return s == "" || strings.EqualFold(s, Unknown)
}

package carrier

import (
	"strings"
	"time"

	"github.com/zero-day-ai/fusion/finding"
)

// Field names one attribute of a phone number that providers may disagree on.
type Field string

const (
	FieldCarrier             Field = "carrier"
	FieldLineType            Field = "lineType"
	FieldCountry             Field = "country"
	FieldCountryCode         Field = "countryCode"
	FieldLocation            Field = "location"
	FieldInternationalFormat Field = "internationalFormat"
	FieldLocalFormat         Field = "localFormat"

	// FieldRisk is not an attribute of Observation. It only selects the
	// priority table used to pick the authoritative risk profile.
	FieldRisk Field = "risk"
)

// MergeFields lists the attribute fields resolved by Merge, in output order.
var MergeFields = []Field{
	FieldCarrier,
	FieldLineType,
	FieldCountry,
	FieldCountryCode,
	FieldLocation,
	FieldInternationalFormat,
	FieldLocalFormat,
}

// confidenceFields are the load-bearing fields averaged into OverallConfidence.
var confidenceFields = []Field{FieldCarrier, FieldLineType, FieldCountry}

// Observation is one provider's view of a phone number's attributes.
type Observation struct {
	Carrier             string `json:"carrier,omitempty"`
	LineType            string `json:"lineType,omitempty"`
	Country             string `json:"country,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
	Location            string `json:"location,omitempty"`
	InternationalFormat string `json:"internationalFormat,omitempty"`
	LocalFormat         string `json:"localFormat,omitempty"`

	// Provider is the provider id (e.g. "numverify", "ipqs_phone").
	Provider string `json:"provider"`

	// Confidence is the provider's confidence in [0,1].
	Confidence float64 `json:"confidence"`

	ObservedAt time.Time `json:"observedAt"`

	// Risk is set by risk-focused providers only.
	Risk *RiskProfile `json:"risk,omitempty"`
}

// Value returns the raw value of field, or "" for fields that are not
// attributes of an observation.
func (o Observation) Value(field Field) string {
	switch field {
	case FieldCarrier:
		return o.Carrier
	case FieldLineType:
		return o.LineType
	case FieldCountry:
		return o.Country
	case FieldCountryCode:
		return o.CountryCode
	case FieldLocation:
		return o.Location
	case FieldInternationalFormat:
		return o.InternationalFormat
	case FieldLocalFormat:
		return o.LocalFormat
	default:
		return ""
	}
}

// usable reports whether v carries information: empty and Unknown values do not.
func usable(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, finding.Unknown)
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

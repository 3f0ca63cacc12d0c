package carrier

import (
	"cmp"
	"slices"

	"github.com/zero-day-ai/fusion/finding"
)

// Method names how a field value was chosen.
type Method string

const (
	// MethodConsensus means every provider reported the same normalized value.
	MethodConsensus Method = "consensus"

	// MethodPriority means providers disagreed and the most trusted one won.
	MethodPriority Method = "priority"
)

// noProvider is reported as the winner when no observation had a value.
const noProvider = "none"

// Candidate is one provider's value for a field.
type Candidate struct {
	Value      string  `json:"value"`
	Provider   string  `json:"provider"`
	Confidence float64 `json:"confidence"`
}

// ConflictResolution records how one field was resolved.
type ConflictResolution struct {
	Field            Field       `json:"field"`
	Values           []Candidate `json:"values"`
	ResolvedValue    string      `json:"resolvedValue"`
	ResolvedProvider string      `json:"resolvedProvider"`
	Method           Method      `json:"resolutionMethod"`
	ConflictDetected bool        `json:"conflictDetected"`
}

// MergedResult is the resolved record for one phone number. The risk fields
// are zero after Merge and are filled by ApplyRisk.
type MergedResult struct {
	Carrier             string `json:"carrier"`
	LineType            string `json:"lineType"`
	Country             string `json:"country"`
	CountryCode         string `json:"countryCode"`
	Location            string `json:"location"`
	InternationalFormat string `json:"internationalFormat"`
	LocalFormat         string `json:"localFormat"`

	Sources             []string             `json:"sources"`
	SourceCount         int                  `json:"sourceCount"`
	OverallConfidence   float64              `json:"overallConfidence"`
	ConflictResolutions []ConflictResolution `json:"conflictResolutions"`
	HasConflicts        bool                 `json:"hasConflicts"`

	// RiskScore is the fraud score (0-100) of the chosen risk profile, nil
	// when no provider reported one.
	RiskScore    *float64 `json:"riskScore"`
	RiskProvider string   `json:"riskProvider,omitempty"`
	IsVoIP       bool     `json:"isVoip"`
	IsRisky      bool     `json:"isRisky"`
	Leaked       bool     `json:"leaked"`
	RecentAbuse  bool     `json:"recentAbuse"`
	Spammer      bool     `json:"spammer"`
}

func (m *MergedResult) set(field Field, value string) {
	switch field {
	case FieldCarrier:
		m.Carrier = value
	case FieldLineType:
		m.LineType = value
	case FieldCountry:
		m.Country = value
	case FieldCountryCode:
		m.CountryCode = value
	case FieldLocation:
		m.Location = value
	case FieldInternationalFormat:
		m.InternationalFormat = value
	case FieldLocalFormat:
		m.LocalFormat = value
	}
}

// Fuser merges carrier observations using a set of provider priorities.
// A Fuser is immutable and safe for concurrent use.
type Fuser struct {
	priorities Priorities
}

// NewFuser creates a Fuser. A nil table uses DefaultPriorities.
func NewFuser(priorities Priorities) *Fuser {
	if priorities == nil {
		priorities = DefaultPriorities()
	}
	return &Fuser{priorities: priorities.Clone()}
}

// Merge resolves a batch of observations with the default priorities.
func Merge(observations []Observation) MergedResult {
	return NewFuser(nil).Merge(observations)
}

type ranked struct {
	Candidate
	priority   int
	normalized string
}

// ResolveField picks one value for field. Observations without a usable
// value are ignored. When all remaining values agree the most confident
// observation wins; otherwise the highest-priority provider wins, with
// confidence breaking ties.
func (f *Fuser) ResolveField(observations []Observation, field Field) ConflictResolution {
	var values []ranked
	for _, o := range observations {
		v := o.Value(field)
		if !usable(v) {
			continue
		}
		values = append(values, ranked{
			Candidate: Candidate{
				Value:      v,
				Provider:   o.Provider,
				Confidence: finding.ClampConfidence(o.Confidence),
			},
			priority:   f.priorities.Rank(field, o.Provider),
			normalized: normalize(v),
		})
	}

	res := ConflictResolution{
		Field:            field,
		Values:           []Candidate{},
		ResolvedProvider: noProvider,
		Method:           MethodPriority,
	}
	if len(values) == 0 {
		return res
	}

	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		distinct[v.normalized] = struct{}{}
		res.Values = append(res.Values, v.Candidate)
	}
	res.ConflictDetected = len(distinct) > 1

	if res.ConflictDetected {
		slices.SortStableFunc(values, func(a, b ranked) int {
			if c := cmp.Compare(b.priority, a.priority); c != 0 {
				return c
			}
			return cmp.Compare(b.Confidence, a.Confidence)
		})
		res.Method = MethodPriority
	} else {
		slices.SortStableFunc(values, func(a, b ranked) int {
			return cmp.Compare(b.Confidence, a.Confidence)
		})
		res.Method = MethodConsensus
	}

	res.ResolvedValue = values[0].Value
	res.ResolvedProvider = values[0].Provider
	return res
}

// FieldConfidence scores how much the providers agree on field: the mean
// confidence of the largest agreeing group, +0.10 for full agreement, +0.05
// for at least 67% agreement and -0.10 otherwise, clamped to [0,1].
func FieldConfidence(observations []Observation, field Field) float64 {
	switch len(observations) {
	case 0:
		return 0
	case 1:
		return finding.ClampConfidence(observations[0].Confidence)
	}

	type group struct {
		count int
		sum   float64
	}
	var order []string
	groups := make(map[string]*group)
	total := 0
	for _, o := range observations {
		v := o.Value(field)
		if !usable(v) {
			continue
		}
		key := normalize(v)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.sum += finding.ClampConfidence(o.Confidence)
		total++
	}
	if total == 0 {
		return 0
	}

	largest := groups[order[0]]
	for _, key := range order[1:] {
		if groups[key].count > largest.count {
			largest = groups[key]
		}
	}

	agreement := float64(largest.count) / float64(total)
	avg := largest.sum / float64(largest.count)

	var boost float64
	switch {
	case agreement == 1:
		boost = 0.10
	case agreement >= 0.67:
		boost = 0.05
	default:
		boost = -0.10
	}
	return finding.ClampConfidence(avg + boost)
}

// Merge resolves every attribute field independently and records the
// conflicts that had to be settled by priority.
func (f *Fuser) Merge(observations []Observation) MergedResult {
	merged := MergedResult{
		Sources:             []string{},
		ConflictResolutions: []ConflictResolution{},
	}
	if len(observations) == 0 {
		return merged
	}

	for _, field := range MergeFields {
		res := f.ResolveField(observations, field)
		merged.set(field, res.ResolvedValue)
		if res.ConflictDetected {
			merged.ConflictResolutions = append(merged.ConflictResolutions, res)
		}
	}
	merged.HasConflicts = len(merged.ConflictResolutions) > 0

	var sum float64
	for _, field := range confidenceFields {
		sum += FieldConfidence(observations, field)
	}
	merged.OverallConfidence = sum / float64(len(confidenceFields))

	seen := make(map[string]struct{}, len(observations))
	for _, o := range observations {
		if _, ok := seen[o.Provider]; ok {
			continue
		}
		seen[o.Provider] = struct{}{}
		merged.Sources = append(merged.Sources, o.Provider)
	}
	merged.SourceCount = len(observations)

	return merged
}

package carrier

import (
	"cmp"
	"slices"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
)

// RiskProfile is the risk view of a phone number reported by a risk-focused
// provider.
type RiskProfile struct {
	// FraudScore is the provider's 0-100 fraud score, nil when not reported.
	FraudScore  *float64 `json:"fraudScore,omitempty"`
	VoIP        bool     `json:"voip"`
	Risky       bool     `json:"risky"`
	Leaked      bool     `json:"leaked"`
	RecentAbuse bool     `json:"recentAbuse"`
	Spammer     bool     `json:"spammer"`
}

// ApplyRisk fills the risk fields of merged from the observations. Merge
// never touches these fields; risk composition is a separate step so callers
// can merge attributes without a risk provider present.
//
// The profile of the most trusted risk provider wins (confidence breaks
// ties). A resolved line type of "voip" also marks the number as VoIP.
func (f *Fuser) ApplyRisk(merged MergedResult, observations []Observation) MergedResult {
	var candidates []Observation
	for _, o := range observations {
		if o.Risk != nil {
			candidates = append(candidates, o)
		}
	}

	if len(candidates) > 0 {
		slices.SortStableFunc(candidates, func(a, b Observation) int {
			if c := cmp.Compare(f.priorities.Rank(FieldRisk, b.Provider), f.priorities.Rank(FieldRisk, a.Provider)); c != 0 {
				return c
			}
			return cmp.Compare(finding.ClampConfidence(b.Confidence), finding.ClampConfidence(a.Confidence))
		})

		best := candidates[0]
		p := best.Risk
		if p.FraudScore != nil {
			score := clampScore(*p.FraudScore)
			merged.RiskScore = &score
		}
		merged.RiskProvider = best.Provider
		merged.IsVoIP = p.VoIP
		merged.IsRisky = p.Risky
		merged.Leaked = p.Leaked
		merged.RecentAbuse = p.RecentAbuse
		merged.Spammer = p.Spammer
	}

	if strings.EqualFold(strings.TrimSpace(merged.LineType), "voip") {
		merged.IsVoIP = true
	}
	return merged
}

func clampScore(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package fusion

import (
	"time"

	"github.com/zero-day-ai/fusion/behavior"
	"github.com/zero-day-ai/fusion/carrier"
	"github.com/zero-day-ai/fusion/correlate"
	"github.com/zero-day-ai/fusion/finding"
	"github.com/zero-day-ai/fusion/persona"
	"github.com/zero-day-ai/fusion/risk"
	"github.com/zero-day-ai/fusion/score"
)

// Report is everything derived from one scan's findings.
type Report struct {
	ScanID       string                  `json:"scanId"`
	GeneratedAt  time.Time               `json:"generatedAt"`
	Findings     []finding.Finding       `json:"findings"`
	Correlations []correlate.Correlation `json:"correlations"`
	Summary      correlate.Summary       `json:"summary"`
	EntityScore  score.EntityScore       `json:"entityScore"`
	RiskIndex    risk.Index              `json:"riskIndex"`
	Persona      persona.DNA             `json:"persona"`
	Behavior     behavior.Profile        `json:"behavior"`
}

// CarrierReport is the fused carrier intelligence for one phone number.
type CarrierReport struct {
	Phone  string               `json:"phone"`
	Merged carrier.MergedResult `json:"merged"`

	// Findings holds the synthesized summary finding followed by any risk
	// findings.
	Findings []finding.Finding `json:"findings"`
}

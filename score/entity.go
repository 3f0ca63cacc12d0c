package score

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
)

// Risk levels of an EntityScore.
const (
	LevelCritical = "critical"
	LevelHigh     = "high"
	LevelMedium   = "medium"
	LevelLow      = "low"
	LevelMinimal  = "minimal"
)

// Confidence levels of an EntityScore.
const (
	ConfidenceVeryHigh = "very_high"
	ConfidenceHigh     = "high"
	ConfidenceMedium   = "medium"
	ConfidenceLow      = "low"
)

const (
	compressionThreshold = 80.0
	compressionFactor    = 0.5
	topProviderCount     = 5
)

// EntityScore summarizes the exposure of one scanned entity. Higher
// ExposureScore is worse.
type EntityScore struct {
	ExposureScore     float64        `json:"riskScore"`
	ConfidenceScore   float64        `json:"confidenceScore"`
	ProviderCount     int            `json:"providerCount"`
	FindingCount      int            `json:"findingCount"`
	SeverityBreakdown map[string]int `json:"severityBreakdown"`
	TopProviders      []string       `json:"topProviders"`
	RiskLevel         string         `json:"riskLevel"`
	ConfidenceLevel   string         `json:"confidenceLevel"`
}

// WeightError reports a negative weight.
type WeightError struct {
	Name  string
	Value float64
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("weight %s must not be negative, got %v", e.Name, e.Value)
}

// Scorer computes entity scores with a fixed weight table.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer using w.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes the EntityScore of findings with the default weights.
func Score(findings []finding.Finding) EntityScore {
	return NewScorer(DefaultWeights()).Score(findings)
}

// Score computes the EntityScore of findings. Both scores are in [0,100].
func (s *Scorer) Score(findings []finding.Finding) EntityScore {
	breakdown := make(map[string]int, 5)
	for _, sev := range finding.AllSeverities() {
		breakdown[sev.String()] = 0
	}

	providers := map[string]int{}
	var order []string
	raw, confSum := 0.0, 0.0
	for _, f := range findings {
		conf := finding.ClampConfidence(f.Confidence)
		raw += s.weights.Severity(f.Severity) * conf * s.weights.ConfidenceWeight
		confSum += conf
		if f.Severity.IsValid() {
			breakdown[f.Severity.String()]++
		}
		p := strings.TrimSpace(f.Provider)
		if p == "" {
			continue
		}
		if _, ok := providers[p]; !ok {
			order = append(order, p)
		}
		providers[p]++
	}
	raw += float64(len(providers)) * s.weights.ProviderBonus

	exposure := compress(math.Min(100, math.Max(0, raw)))

	confidence := 0.0
	if len(findings) > 0 {
		mean := confSum / float64(len(findings))
		confidence = math.Min(100, (0.7*mean+math.Min(0.15*float64(len(providers)), 0.5))*100)
	}

	return EntityScore{
		ExposureScore:     exposure,
		ConfidenceScore:   confidence,
		ProviderCount:     len(providers),
		FindingCount:      len(findings),
		SeverityBreakdown: breakdown,
		TopProviders:      topProviders(order, providers),
		RiskLevel:         RiskLevel(exposure),
		ConfidenceLevel:   ConfidenceLevel(confidence),
	}
}

// compress halves the part of a score above the threshold.
func compress(score float64) float64 {
	if score > compressionThreshold {
		return compressionThreshold + (score-compressionThreshold)*compressionFactor
	}
	return score
}

// RiskLevel maps an exposure score to its level.
func RiskLevel(score float64) string {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	case score >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// ConfidenceLevel maps a confidence score to its level.
func ConfidenceLevel(score float64) string {
	switch {
	case score >= 85:
		return ConfidenceVeryHigh
	case score >= 70:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func topProviders(order []string, counts map[string]int) []string {
	top := slices.Clone(order)
	slices.SortStableFunc(top, func(a, b string) int { return cmp.Compare(counts[b], counts[a]) })
	if len(top) > topProviderCount {
		top = top[:topProviderCount]
	}
	if top == nil {
		top = []string{}
	}
	return top
}

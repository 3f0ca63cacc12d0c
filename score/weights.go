package score

import "github.com/zero-day-ai/fusion/finding"

// Weights are the per-severity points and bonuses used to score findings.
type Weights struct {
	Critical float64 `yaml:"critical" json:"critical"`
	High     float64 `yaml:"high" json:"high"`
	Medium   float64 `yaml:"medium" json:"medium"`
	Low      float64 `yaml:"low" json:"low"`
	Info     float64 `yaml:"info" json:"info"`

	// ConfidenceWeight scales each finding's severity points by its confidence.
	ConfidenceWeight float64 `yaml:"confidence_weight" json:"confidenceWeight"`

	// ProviderBonus is added once per distinct provider.
	ProviderBonus float64 `yaml:"provider_bonus" json:"providerBonus"`
}

// DefaultWeights returns the standard severity weight table.
func DefaultWeights() Weights {
	return Weights{
		Critical:         25,
		High:             15,
		Medium:           10,
		Low:              5,
		Info:             2,
		ConfidenceWeight: 0.8,
		ProviderBonus:    2,
	}
}

// Severity returns the points for s. Unknown severities score 0.
func (w Weights) Severity(s finding.Severity) float64 {
	switch s {
	case finding.SeverityCritical:
		return w.Critical
	case finding.SeverityHigh:
		return w.High
	case finding.SeverityMedium:
		return w.Medium
	case finding.SeverityLow:
		return w.Low
	case finding.SeverityInfo:
		return w.Info
	default:
		return 0
	}
}

// Max returns the highest severity weight in the table.
func (w Weights) Max() float64 {
	m := w.Critical
	for _, v := range []float64{w.High, w.Medium, w.Low, w.Info} {
		if v > m {
			m = v
		}
	}
	return m
}

// Validate reports whether any weight is negative.
func (w Weights) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"critical", w.Critical},
		{"high", w.High},
		{"medium", w.Medium},
		{"low", w.Low},
		{"info", w.Info},
		{"confidence_weight", w.ConfidenceWeight},
		{"provider_bonus", w.ProviderBonus},
	}
	for _, f := range fields {
		if f.v < 0 {
			return &WeightError{Name: f.name, Value: f.v}
		}
	}
	return nil
}

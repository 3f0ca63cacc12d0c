package correlate

import (
	"math"
	"slices"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
	"github.com/zero-day-ai/fusion/score"
)

// Summary aggregates a batch of findings.
type Summary struct {
	TotalFindings  int            `json:"totalFindings"`
	SeverityCounts map[string]int `json:"severityCounts"`
	Providers      []string       `json:"providers"`

	// SafetyScore is in [0,100] and higher is safer. It is not comparable
	// with score.EntityScore.ExposureScore.
	SafetyScore float64 `json:"safetyScore"`
}

// Summarize counts severities and providers and computes the safety score
// from the severity weights: 100 - total/maxPossible*100, where
// maxPossible assumes every finding had the heaviest severity. An empty
// batch scores 100.
func Summarize(findings []finding.Finding, w score.Weights) Summary {
	s := Summary{
		TotalFindings:  len(findings),
		SeverityCounts: make(map[string]int, 5),
		Providers:      []string{},
		SafetyScore:    100,
	}
	for _, sev := range finding.AllSeverities() {
		s.SeverityCounts[sev.String()] = 0
	}

	seen := map[string]struct{}{}
	total := 0.0
	for _, f := range findings {
		if f.Severity.IsValid() {
			s.SeverityCounts[f.Severity.String()]++
		}
		total += w.Severity(f.Severity)
		if p := strings.TrimSpace(f.Provider); p != "" {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				s.Providers = append(s.Providers, p)
			}
		}
	}
	slices.Sort(s.Providers)

	maxPossible := float64(len(findings)) * w.Max()
	if maxPossible > 0 {
		s.SafetyScore = math.Max(0, math.Min(100, 100-total/maxPossible*100))
	}
	return s
}

package carrier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zero-day-ai/fusion/finding"
)

const (
	mergedProvider       = "Merged Intelligence"
	carrierCategory      = "Carrier Intelligence"
	riskCategory         = "Risk Intelligence"
	riskFindingThreshold = 50.0
)

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// MergedFinding summarizes a merge as a finding: the resolved attributes,
// the contributing providers, and one evidence entry per settled conflict
// naming the method and winning provider.
func MergedFinding(phone string, merged MergedResult, now time.Time) finding.Finding {
	lineType := orDefault(merged.LineType, "unknown")

	conflictNote := ""
	if merged.HasConflicts {
		conflictNote = fmt.Sprintf(" (%d conflict(s) resolved)", len(merged.ConflictResolutions))
	}

	evidence := []finding.Evidence{
		finding.NewEvidence("Phone", phone),
		finding.NewEvidence("Carrier", orDefault(merged.Carrier, finding.Unknown)),
		finding.NewEvidence("Line Type", lineType),
		finding.NewEvidence("Country", orDefault(merged.Country, finding.Unknown)),
		finding.NewEvidence("Country Code", orDefault(merged.CountryCode, finding.Unknown)),
		finding.NewEvidence("Location", orDefault(merged.Location, finding.Unknown)),
		finding.NewEvidence("Sources", strings.Join(merged.Sources, ", ")),
		finding.NewEvidence("Source Count", merged.SourceCount),
		finding.NewEvidence("Confidence", fmt.Sprintf("%d%%", int(math.Round(merged.OverallConfidence*100)))),
		finding.NewEvidence("Conflicts Resolved", len(merged.ConflictResolutions)),
	}
	if merged.InternationalFormat != "" {
		evidence = append(evidence, finding.NewEvidence("International Format", merged.InternationalFormat))
	}
	for _, r := range merged.ConflictResolutions {
		evidence = append(evidence, finding.NewEvidence(
			fmt.Sprintf("%s Conflict", r.Field),
			fmt.Sprintf("Resolved using %s: %s (from %s)", r.Method, r.ResolvedValue, r.ResolvedProvider),
		))
	}

	severity := finding.SeverityInfo
	if merged.IsVoIP {
		severity = finding.SeverityLow
	}

	impact := "Phone carrier and type identified for verification"
	if merged.SourceCount > 1 {
		impact = "High-confidence carrier data from multiple corroborating sources"
	}

	tags := []string{"phone", "carrier", strings.ToLower(lineType), "merged"}
	tags = append(tags, merged.Sources...)

	return finding.Finding{
		ID:               finding.GenerateID("carrier_merged", "unified_intel", phone),
		Type:             finding.TypePhoneIntelligence,
		Title:            fmt.Sprintf("Carrier: %s (%s)", orDefault(merged.Carrier, finding.Unknown), lineType),
		Description:      fmt.Sprintf("Phone validated as %s line in %s. Corroborated by %d provider(s)%s.", lineType, orDefault(merged.Country, "unknown country"), merged.SourceCount, conflictNote),
		Severity:         severity,
		Confidence:       finding.ClampConfidence(merged.OverallConfidence),
		Provider:         mergedProvider,
		ProviderCategory: carrierCategory,
		Evidence:         evidence,
		Impact:           impact,
		Remediation:      []string{},
		Tags:             tags,
		ObservedAt:       now,
	}
}

// RiskFindings derives zero or more findings from the risk fields of a
// merged result: a fraud-risk finding when the fraud score exceeds 50 or an
// abuse flag is set, and a VoIP finding for VoIP lines.
func RiskFindings(phone string, merged MergedResult, now time.Time) []finding.Finding {
	var out []finding.Finding

	if merged.RiskScore != nil && (*merged.RiskScore > riskFindingThreshold || merged.Leaked || merged.RecentAbuse || merged.Spammer) {
		score := *merged.RiskScore

		var factors []string
		if merged.Spammer {
			factors = append(factors, "Known Spammer")
		}
		if merged.RecentAbuse {
			factors = append(factors, "Recent Abuse")
		}
		if merged.Leaked {
			factors = append(factors, "Found in Data Leak")
		}
		if merged.IsRisky {
			factors = append(factors, "High Risk")
		}

		severity := finding.SeverityLow
		switch {
		case score > 75:
			severity = finding.SeverityHigh
		case score > 50:
			severity = finding.SeverityMedium
		}

		title := fmt.Sprintf("Fraud Score: %.0f", score)
		description := fmt.Sprintf("Phone has fraud score of %.0f/100.", score)
		if len(factors) > 0 {
			title = "Risk: " + strings.Join(factors[:min(2, len(factors))], ", ")
			description += fmt.Sprintf(" Risk factors: %s.", strings.Join(factors, ", "))
		}

		impact := "Phone has some risk indicators"
		remediation := []string{}
		if severity == finding.SeverityHigh {
			impact = "High-risk phone number - proceed with caution"
		}
		if severity != finding.SeverityLow {
			remediation = []string{
				"Verify identity through additional channels",
				"Enable additional security measures",
				"Be cautious of SIM-swapping attacks",
			}
		}

		tags := []string{"phone", "risk"}
		for _, f := range factors {
			tags = append(tags, strings.ReplaceAll(strings.ToLower(f), " ", "-"))
		}

		out = append(out, finding.Finding{
			ID:               finding.GenerateID("risk_merged", "risk_signal", phone),
			Type:             finding.TypePhoneIntelligence,
			Title:            title,
			Description:      description,
			Severity:         severity,
			Confidence:       0.85,
			Provider:         mergedProvider,
			ProviderCategory: riskCategory,
			Evidence: []finding.Evidence{
				finding.NewEvidence("Phone", phone),
				finding.NewEvidence("Fraud Score", fmt.Sprintf("%.0f/100", score)),
				finding.NewEvidence("Is Spammer", merged.Spammer),
				finding.NewEvidence("Recent Abuse", merged.RecentAbuse),
				finding.NewEvidence("Leaked", merged.Leaked),
				finding.NewEvidence("Risk Factors", len(factors)),
			},
			Impact:      impact,
			Remediation: remediation,
			Tags:        tags,
			ObservedAt:  now,
		})
	}

	if merged.IsVoIP {
		out = append(out, finding.Finding{
			ID:               finding.GenerateID("voip_merged", "voip_detection", phone),
			Type:             finding.TypePhoneIntelligence,
			Title:            "VoIP Number Detected",
			Description:      "Phone number is a VoIP line, which may have lower security protections.",
			Severity:         finding.SeverityLow,
			Confidence:       0.9,
			Provider:         mergedProvider,
			ProviderCategory: carrierCategory,
			Evidence: []finding.Evidence{
				finding.NewEvidence("Phone", phone),
				finding.NewEvidence("Is VoIP", true),
				finding.NewEvidence("Carrier", orDefault(merged.Carrier, finding.Unknown)),
				finding.NewEvidence("Sources", strings.Join(merged.Sources, ", ")),
			},
			Impact: "VoIP numbers are easier to spoof and may be used in phishing",
			Remediation: []string{
				"Consider additional verification methods",
				"Be cautious of SMS-based 2FA vulnerabilities",
			},
			Tags:       []string{"phone", "voip", "security"},
			ObservedAt: now,
		})
	}

	return out
}

package risk

import (
	"fmt"

	"github.com/zero-day-ai/fusion/finding"
)

// Category names the five risk categories.
type Category string

const (
	CategoryBreaches          Category = "Data Breaches"
	CategoryVulnerabilities   Category = "Vulnerabilities"
	CategoryUsernameReuse     Category = "Username Reuse"
	CategoryPlatformDiversity Category = "Platform Exposure Diversity"
	CategoryAdjacency         Category = "Suspicious Adjacency"
)

// Categories lists every category in reporting order.
func Categories() []Category {
	return []Category{
		CategoryBreaches,
		CategoryVulnerabilities,
		CategoryUsernameReuse,
		CategoryPlatformDiversity,
		CategoryAdjacency,
	}
}

// Weights are the category weights; they should sum to 1.
type Weights struct {
	Breaches          float64 `yaml:"breaches" json:"breaches"`
	Vulnerabilities   float64 `yaml:"vulnerabilities" json:"vulnerabilities"`
	UsernameReuse     float64 `yaml:"username_reuse" json:"usernameReuse"`
	PlatformDiversity float64 `yaml:"platform_diversity" json:"platformDiversity"`
	Adjacency         float64 `yaml:"adjacency" json:"adjacency"`
}

func (w Weights) of(c Category) float64 {
	switch c {
	case CategoryBreaches:
		return w.Breaches
	case CategoryVulnerabilities:
		return w.Vulnerabilities
	case CategoryUsernameReuse:
		return w.UsernameReuse
	case CategoryPlatformDiversity:
		return w.PlatformDiversity
	case CategoryAdjacency:
		return w.Adjacency
	}
	return 0
}

// Config holds the tables the Calculator works from.
type Config struct {
	Weights Weights `yaml:"weights" json:"weights"`

	// SeverityScores maps a severity to its 0-100 category points.
	SeverityScores map[finding.Severity]float64 `yaml:"severity_scores" json:"severityScores"`

	// Denylist holds keywords that mark a finding as suspicious adjacency
	// when found in its title or description.
	Denylist []string `yaml:"denylist" json:"denylist"`

	// Recommendations maps each category to its remediation sentence.
	Recommendations map[Category]string `yaml:"recommendations" json:"recommendations"`

	// SecureMessage is returned instead of recommendations for low scores.
	SecureMessage string `yaml:"secure_message" json:"secureMessage"`
}

// DefaultConfig returns the standard risk index configuration.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Breaches:          0.40,
			Vulnerabilities:   0.25,
			UsernameReuse:     0.15,
			PlatformDiversity: 0.10,
			Adjacency:         0.10,
		},
		SeverityScores: map[finding.Severity]float64{
			finding.SeverityCritical: 100,
			finding.SeverityHigh:     75,
			finding.SeverityMedium:   50,
			finding.SeverityLow:      25,
			finding.SeverityInfo:     10,
		},
		Denylist: []string{
			"dark web", "darkweb", "paste", "combolist", "dump", "stealer",
			"botnet", "malware", "ransomware", "phishing", "scam", "fraud",
			"carding", "hacker forum",
		},
		Recommendations: map[Category]string{
			CategoryBreaches:          "Change passwords for breached accounts and enable multi-factor authentication.",
			CategoryVulnerabilities:   "Patch or close exposed services and review domain reputation listings.",
			CategoryUsernameReuse:     "Use distinct usernames across platforms to limit account linking.",
			CategoryPlatformDiversity: "Remove or lock down unused accounts to shrink your public footprint.",
			CategoryAdjacency:         "Investigate mentions on suspicious sites and request takedowns where possible.",
		},
		SecureMessage: "Your exposure is limited. Keep monitoring and maintain good security hygiene.",
	}
}

// Validate checks that weights are non-negative and every category has a
// recommendation.
func (c Config) Validate() error {
	for _, cat := range Categories() {
		if w := c.Weights.of(cat); w < 0 {
			return fmt.Errorf("risk weight for %q must not be negative, got %v", cat, w)
		}
		if c.Recommendations[cat] == "" {
			return fmt.Errorf("missing recommendation for %q", cat)
		}
	}
	for sev, v := range c.SeverityScores {
		if v < 0 || v > 100 {
			return fmt.Errorf("severity score for %q must be within [0,100], got %v", sev, v)
		}
	}
	if c.SecureMessage == "" {
		return fmt.Errorf("secure message is required")
	}
	return nil
}

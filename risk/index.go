package risk

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/zero-day-ai/fusion/finding"
)

// Levels of an Index.
const (
	LevelCritical = "critical"
	LevelHigh     = "high"
	LevelMedium   = "medium"
	LevelLow      = "low"
)

// recommendationThreshold is the score below which only the secure
// message is returned.
const recommendationThreshold = 40

const (
	recentAge = 90 * 24 * time.Hour
	yearAge   = 365 * 24 * time.Hour
)

// Contribution is one category's share of the index.
type Contribution struct {
	Category     Category `json:"category"`
	Score        float64  `json:"score"`
	Weight       float64  `json:"weight"`
	FindingCount int      `json:"findingCount"`
}

// Weighted returns the contribution's weighted score.
func (c Contribution) Weighted() float64 {
	return c.Score * c.Weight
}

// Index is the Predictive Risk Index of one scan.
type Index struct {
	Score          float64        `json:"score"`
	Level          string         `json:"level"`
	Contributions  []Contribution `json:"contributions"`
	Recommendation string         `json:"recommendation"`
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the time source used for breach recency.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// Calculator computes risk indexes.
type Calculator struct {
	cfg      Config
	now      func() time.Time
	denylist []string
}

// NewCalculator creates a Calculator for cfg.
func NewCalculator(cfg Config, opts ...Option) *Calculator {
	c := &Calculator{cfg: cfg, now: time.Now}
	for _, kw := range cfg.Denylist {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			c.denylist = append(c.denylist, kw)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate computes the index of findings. An empty batch yields score 0
// and level low.
func (c *Calculator) Calculate(findings []finding.Finding) Index {
	now := c.now()
	groups := finding.GroupByType(findings)
	contributions := []Contribution{
		c.breaches(groups.Get(finding.TypeBreach), now),
		c.vulnerabilities(groups.Get(finding.TypeIPExposure), groups.Get(finding.TypeDomainReputation)),
		usernameReuse(findings),
		platformDiversity(findings),
		c.adjacency(findings),
	}

	total := 0.0
	for i := range contributions {
		contributions[i].Weight = c.cfg.Weights.of(contributions[i].Category)
		total += contributions[i].Weighted()
	}
	score := math.Min(100, math.Round(total))

	return Index{
		Score:          score,
		Level:          Level(score),
		Contributions:  contributions,
		Recommendation: c.recommend(score, contributions),
	}
}

// Level maps an index score to its level.
func Level(score float64) string {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

func (c *Calculator) severityScore(s finding.Severity) float64 {
	return c.cfg.SeverityScores[s]
}

func (c *Calculator) breaches(breaches []finding.Finding, now time.Time) Contribution {
	out := Contribution{Category: CategoryBreaches}
	sum := 0.0
	for _, f := range breaches {
		out.FindingCount++
		sum += c.severityScore(f.Severity) * recency(f.ObservedAt, now)
	}
	if out.FindingCount > 0 {
		out.Score = math.Min(100, sum/float64(out.FindingCount))
	}
	return out
}

// recency weights recent observations higher. Missing timestamps count as
// old.
func recency(observed, now time.Time) float64 {
	if observed.IsZero() {
		return 1.0
	}
	age := now.Sub(observed)
	switch {
	case age < recentAge:
		return 1.5
	case age < yearAge:
		return 1.2
	default:
		return 1.0
	}
}

func (c *Calculator) vulnerabilities(groups ...[]finding.Finding) Contribution {
	out := Contribution{Category: CategoryVulnerabilities}
	sum := 0.0
	for _, group := range groups {
		for _, f := range group {
			out.FindingCount++
			sum += c.severityScore(f.Severity)
		}
	}
	if out.FindingCount > 0 {
		out.Score = math.Min(100, sum/float64(out.FindingCount))
	}
	return out
}

func usernameReuse(findings []finding.Finding) Contribution {
	out := Contribution{Category: CategoryUsernameReuse}
	counts := map[string]int{}
	for i := range findings {
		values := findings[i].EvidenceValues("username")
		if len(values) > 0 {
			out.FindingCount++
		}
		for _, u := range values {
			if u = strings.ToLower(strings.TrimSpace(u)); u != "" {
				counts[u]++
			}
		}
	}
	if len(counts) == 0 {
		return out
	}
	reused := 0
	for _, n := range counts {
		if n > 1 {
			reused += n
		}
	}
	out.Score = math.Min(100, float64(reused)/float64(len(counts))*100)
	return out
}

func platformDiversity(findings []finding.Finding) Contribution {
	out := Contribution{Category: CategoryPlatformDiversity, FindingCount: len(findings)}
	providers := map[string]struct{}{}
	for _, f := range findings {
		if p := strings.ToLower(strings.TrimSpace(f.Provider)); p != "" {
			providers[p] = struct{}{}
		}
	}
	out.Score = math.Min(100, float64(len(providers))*10)
	return out
}

func (c *Calculator) adjacency(findings []finding.Finding) Contribution {
	out := Contribution{Category: CategoryAdjacency}
	for _, f := range findings {
		if c.suspicious(f) {
			out.FindingCount++
		}
	}
	out.Score = math.Min(100, 20*float64(out.FindingCount))
	return out
}

func (c *Calculator) suspicious(f finding.Finding) bool {
	text := strings.ToLower(f.Title + " " + f.Description)
	for _, kw := range c.denylist {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// recommend maps the two heaviest contributing categories to their
// remediation sentences.
func (c *Calculator) recommend(score float64, contributions []Contribution) string {
	if score < recommendationThreshold {
		return c.cfg.SecureMessage
	}
	ranked := make([]Contribution, 0, len(contributions))
	for _, ct := range contributions {
		if ct.Score > 0 {
			ranked = append(ranked, ct)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Contribution) int { return cmp.Compare(b.Weighted(), a.Weighted()) })
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	parts := make([]string, 0, len(ranked))
	for _, ct := range ranked {
		if s := c.cfg.Recommendations[ct.Category]; s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

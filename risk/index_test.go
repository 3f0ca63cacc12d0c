package risk

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/fusion/finding"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func calculator() *Calculator {
	return NewCalculator(DefaultConfig(), WithClock(func() time.Time { return now }))
}

func mk(provider string, typ finding.Type, sev finding.Severity, age time.Duration) finding.Finding {
	return finding.NewFinding(provider, string(typ), fmt.Sprintf("%s-%s", sev, age), typ, sev, "finding", now.Add(-age))
}

func contribution(t *testing.T, idx Index, c Category) Contribution {
	t.Helper()
	for _, ct := range idx.Contributions {
		if ct.Category == c {
			return ct
		}
	}
	t.Fatalf("no contribution for %s", c)
	return Contribution{}
}

func TestCalculate_Empty(t *testing.T) {
	idx := calculator().Calculate(nil)

	assert.Zero(t, idx.Score)
	assert.Equal(t, LevelLow, idx.Level)
	assert.Len(t, idx.Contributions, 5)
	assert.Equal(t, DefaultConfig().SecureMessage, idx.Recommendation)
}

func TestCalculate_BreachOnly(t *testing.T) {
	f := mk("hibp", finding.TypeBreach, finding.SeverityCritical, 10*24*time.Hour)
	f.Confidence = 0.95

	idx := calculator().Calculate([]finding.Finding{f})

	breach := contribution(t, idx, CategoryBreaches)
	assert.Equal(t, 100.0, breach.Score)
	assert.Equal(t, 0.40, breach.Weight)
	assert.Equal(t, 1, breach.FindingCount)
	assert.GreaterOrEqual(t, idx.Score, 40.0)
	assert.Contains(t, []string{LevelMedium, LevelHigh, LevelCritical}, idx.Level)
	// 100*0.4 + 10*0.1
	assert.Equal(t, 41.0, idx.Score)
	assert.Contains(t, idx.Recommendation, DefaultConfig().Recommendations[CategoryBreaches])
}

func TestCalculate_Recency(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"recent", 30 * 24 * time.Hour, 75},
		{"this year", 200 * 24 * time.Hour, 60},
		{"old", 800 * 24 * time.Hour, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := calculator().Calculate([]finding.Finding{mk("hibp", finding.TypeBreach, finding.SeverityMedium, tt.age)})
			assert.InDelta(t, tt.want, contribution(t, idx, CategoryBreaches).Score, 1e-9)
		})
	}
}

func TestCalculate_Vulnerabilities(t *testing.T) {
	idx := calculator().Calculate([]finding.Finding{
		mk("shodan", finding.TypeIPExposure, finding.SeverityHigh, 0),
		mk("urlscan", finding.TypeDomainReputation, finding.SeverityLow, 0),
		mk("builtwith", finding.TypeDomainTech, finding.SeverityCritical, 0),
	})

	v := contribution(t, idx, CategoryVulnerabilities)
	assert.Equal(t, 2, v.FindingCount)
	assert.InDelta(t, 50, v.Score, 1e-9)
}

func TestCalculate_UsernameReuse(t *testing.T) {
	withUser := func(provider, user string) finding.Finding {
		f := mk(provider, finding.TypeUsername, finding.SeverityInfo, 0)
		f.Evidence = []finding.Evidence{finding.NewEvidence("username", user)}
		return f
	}
	idx := calculator().Calculate([]finding.Finding{
		withUser("github", "jdoe"),
		withUser("reddit", "JDoe"),
		withUser("gitlab", "jdoe"),
		withUser("twitter", "john"),
		withUser("keybase", "j.doe"),
		withUser("steam", "jd"),
	})

	// jdoe seen 3 times over 4 distinct usernames.
	u := contribution(t, idx, CategoryUsernameReuse)
	assert.InDelta(t, 75, u.Score, 1e-9)
	assert.Equal(t, 6, u.FindingCount)
}

func TestCalculate_PlatformDiversity(t *testing.T) {
	var findings []finding.Finding
	for i := 0; i < 14; i++ {
		findings = append(findings, mk(fmt.Sprintf("p%d", i), finding.TypeSocialMedia, finding.SeverityInfo, 0))
	}
	idx := calculator().Calculate(findings)
	assert.Equal(t, 100.0, contribution(t, idx, CategoryPlatformDiversity).Score)
}

func TestCalculate_Adjacency(t *testing.T) {
	a := mk("intelx", finding.TypePaste, finding.SeverityMedium, 0)
	a.Title = "Email found in PASTE site"
	b := mk("darkowl", finding.TypeDarkWeb, finding.SeverityHigh, 0)
	b.Description = "Mentioned on a dark web forum"
	c := mk("github", finding.TypeSocialMedia, finding.SeverityInfo, 0)

	idx := calculator().Calculate([]finding.Finding{a, b, c})

	adj := contribution(t, idx, CategoryAdjacency)
	assert.Equal(t, 2, adj.FindingCount)
	assert.InDelta(t, 40, adj.Score, 1e-9)
}

func TestCalculate_RecommendationTopTwo(t *testing.T) {
	cfg := DefaultConfig()
	var findings []finding.Finding
	findings = append(findings,
		mk("hibp", finding.TypeBreach, finding.SeverityCritical, 0),
		mk("shodan", finding.TypeIPExposure, finding.SeverityCritical, 0),
	)
	for i := 0; i < 3; i++ {
		f := mk(fmt.Sprintf("forum%d", i), finding.TypeDarkWeb, finding.SeverityLow, 0)
		f.Title = "stealer log"
		findings = append(findings, f)
	}

	idx := NewCalculator(cfg, WithClock(func() time.Time { return now })).Calculate(findings)

	require.GreaterOrEqual(t, idx.Score, 40.0)
	want := cfg.Recommendations[CategoryBreaches] + " " + cfg.Recommendations[CategoryVulnerabilities]
	assert.Equal(t, want, idx.Recommendation)
}

func TestCalculate_Bounded(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	types := finding.AllTypes()
	sevs := finding.AllSeverities()
	calc := calculator()

	for run := 0; run < 200; run++ {
		var findings []finding.Finding
		for i := 0; i < r.Intn(80); i++ {
			f := mk(fmt.Sprintf("p%d", r.Intn(20)), types[r.Intn(len(types))], sevs[r.Intn(len(sevs))], time.Duration(r.Intn(1000))*24*time.Hour)
			f.Title = "leak dump scam"
			f.Evidence = []finding.Evidence{finding.NewEvidence("username", fmt.Sprintf("u%d", r.Intn(3)))}
			findings = append(findings, f)
		}
		idx := calc.Calculate(findings)
		require.GreaterOrEqual(t, idx.Score, 0.0)
		require.LessOrEqual(t, idx.Score, 100.0)
		for _, ct := range idx.Contributions {
			require.LessOrEqual(t, ct.Score, 100.0)
		}
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, LevelCritical, Level(80))
	assert.Equal(t, LevelHigh, Level(60))
	assert.Equal(t, LevelMedium, Level(40))
	assert.Equal(t, LevelLow, Level(39))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Weights.Adjacency = -0.1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	delete(cfg.Recommendations, CategoryUsernameReuse)
	assert.Error(t, cfg.Validate())
}

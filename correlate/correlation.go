package correlate

import (
	"context"
	"fmt"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
)

// Reasons attached to correlations produced by the built-in passes.
const (
	ReasonBreachIdentity   = "breach_identity"
	ReasonDomainReputation = "domain_reputation_tech"
	ReasonIPDomain         = "ip_domain_exposure"
	ReasonSharedUsername   = "shared_username"
	ReasonSharedEmail      = "shared_email"
	ReasonSharedLink       = "shared_link"
	ReasonSharedDomain     = "shared_domain"
)

// Correlation links one finding to related findings in the same scan.
type Correlation struct {
	FindingID  string   `json:"findingId"`
	RelatedIDs []string `json:"relatedIds"`
	Reason     string   `json:"reason"`
}

// Pass cross-joins findings matching From with findings matching To.
type Pass struct {
	From   func(finding.Type) bool
	To     func(finding.Type) bool
	Reason string
}

func is(t finding.Type) func(finding.Type) bool {
	return func(other finding.Type) bool { return other == t }
}

// DefaultPasses returns the three type-based passes: breach to identity,
// domain reputation to domain technology, and IP exposure to every domain
// type.
func DefaultPasses() []Pass {
	return []Pass{
		{From: is(finding.TypeBreach), To: is(finding.TypeIdentity), Reason: ReasonBreachIdentity},
		{From: is(finding.TypeDomainReputation), To: is(finding.TypeDomainTech), Reason: ReasonDomainReputation},
		{From: is(finding.TypeIPExposure), To: finding.Type.IsDomain, Reason: ReasonIPDomain},
	}
}

// Config controls a Correlator.
type Config struct {
	// MaxPairs bounds the links a single pass may produce. Zero means no
	// bound.
	MaxPairs int `yaml:"max_pairs" json:"maxPairs"`

	// EvidenceLinks enables linking findings that share a username, an
	// email, a link or an uncommon domain in their evidence.
	EvidenceLinks bool `yaml:"evidence_links" json:"evidenceLinks"`

	// Rules are additional CEL pair rules.
	Rules []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// DefaultConfig returns a configuration with evidence links enabled and a
// pair bound of 10000.
func DefaultConfig() Config {
	return Config{MaxPairs: 10000, EvidenceLinks: true}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxPairs < 0 {
		return fmt.Errorf("max_pairs must not be negative, got %d", c.MaxPairs)
	}
	seen := map[string]struct{}{}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("rule %d: name is required", i)
		}
		if strings.TrimSpace(r.Expression) == "" {
			return fmt.Errorf("rule %q: expression is required", r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("duplicate rule %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// Correlator runs correlation passes over a batch of findings.
type Correlator struct {
	cfg    Config
	passes []Pass
	rules  []*compiledRule
}

// New creates a Correlator running the default passes plus whatever cfg
// enables. Rules are compiled up front.
func New(cfg Config) (*Correlator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := compileRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	return &Correlator{cfg: cfg, passes: DefaultPasses(), rules: rules}, nil
}

// Correlate returns the correlations for findings. Every member of a pass's
// first type is linked to every member of its second type, up to MaxPairs
// links per pass.
func (c *Correlator) Correlate(ctx context.Context, findings []finding.Finding) ([]Correlation, error) {
	var out []Correlation
	for _, p := range c.passes {
		out = append(out, crossJoin(findings, p, c.cfg.MaxPairs)...)
	}
	if c.cfg.EvidenceLinks {
		out = append(out, sharedEvidence(findings, "username", ReasonSharedUsername)...)
		out = append(out, sharedEvidence(findings, "email", ReasonSharedEmail)...)
		out = append(out, sharedLinks(findings)...)
		out = append(out, sharedDomains(findings)...)
	}
	for _, r := range c.rules {
		links, err := r.apply(ctx, findings, c.cfg.MaxPairs)
		if err != nil {
			return nil, err
		}
		out = append(out, links...)
	}
	return out, nil
}

// Correlate runs the default passes without bound or extras.
func Correlate(findings []finding.Finding) []Correlation {
	var out []Correlation
	for _, p := range DefaultPasses() {
		out = append(out, crossJoin(findings, p, 0)...)
	}
	return out
}

func crossJoin(findings []finding.Finding, p Pass, maxPairs int) []Correlation {
	var targets []string
	for _, f := range findings {
		if p.To(f.Type) {
			targets = append(targets, f.ID)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	var out []Correlation
	pairs := 0
	for _, f := range findings {
		if maxPairs > 0 && pairs >= maxPairs {
			break
		}
		if !p.From(f.Type) {
			continue
		}
		related := make([]string, 0, len(targets))
		for _, id := range targets {
			if id == f.ID {
				continue
			}
			if maxPairs > 0 && pairs >= maxPairs {
				break
			}
			related = append(related, id)
			pairs++
		}
		if len(related) == 0 {
			continue
		}
		out = append(out, Correlation{FindingID: f.ID, RelatedIDs: related, Reason: p.Reason})
	}
	return out
}

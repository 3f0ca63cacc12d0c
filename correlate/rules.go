package correlate

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/fusion/finding"
)

// Rule is a custom pair rule. Expression is a CEL boolean expression over
// the variables a and b, each a finding rendered as a map with the keys id,
// type, severity, confidence, provider, providerCategory, title,
// description, tags, evidence and observedAt. Pairs for which it holds are
// linked with Name as the reason. An expression whose static type is neither
// bool nor dyn is rejected when the rule is compiled.
//
//	a["type"] == "email" && b["type"] == "paste" && b.description.contains(a.evidence["email"])
type Rule struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"`
}

type compiledRule struct {
	name string
	prg  cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("a", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("b", cel.MapType(cel.StringType, cel.DynType)),
	)
}

func compileRules(rules []Rule) ([]*compiledRule, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	out := make([]*compiledRule, 0, len(rules))
	for _, r := range rules {
		ast, iss := env.Compile(r.Expression)
		if iss != nil && iss.Err() != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, iss.Err())
		}
		if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("rule %q: expression must evaluate to bool, got %s", r.Name, out)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		out = append(out, &compiledRule{name: r.Name, prg: prg})
	}
	return out, nil
}

// apply evaluates the rule over every ordered pair of distinct findings.
func (r *compiledRule) apply(ctx context.Context, findings []finding.Finding, maxPairs int) ([]Correlation, error) {
	vars := make([]map[string]any, len(findings))
	for i := range findings {
		vars[i] = activation(&findings[i])
	}

	var out []Correlation
	pairs := 0
	for i := range findings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var related []string
		for j := range findings {
			if i == j || findings[i].ID == findings[j].ID {
				continue
			}
			if maxPairs > 0 && pairs >= maxPairs {
				break
			}
			if r.eval(vars[i], vars[j]) {
				related = append(related, findings[j].ID)
				pairs++
			}
		}
		if len(related) > 0 {
			out = append(out, Correlation{FindingID: findings[i].ID, RelatedIDs: related, Reason: r.name})
		}
	}
	return out, nil
}

// eval reports whether the pair matches. Missing keys, type mismatches and
// dyn expressions yielding a non-bool all mean no match.
func (r *compiledRule) eval(a, b map[string]any) bool {
	val, _, err := r.prg.Eval(map[string]any{"a": a, "b": b})
	if err != nil {
		return false
	}
	matched, ok := val.Value().(bool)
	return ok && matched
}

func activation(f *finding.Finding) map[string]any {
	evidence := make(map[string]any, len(f.Evidence))
	for _, ev := range f.Evidence {
		if _, ok := evidence[ev.Key]; !ok {
			evidence[ev.Key] = ev.AsString()
		}
	}
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":               f.ID,
		"type":             string(f.Type),
		"severity":         string(f.Severity),
		"confidence":       finding.ClampConfidence(f.Confidence),
		"provider":         f.Provider,
		"providerCategory": f.ProviderCategory,
		"title":            f.Title,
		"description":      f.Description,
		"tags":             tags,
		"evidence":         evidence,
		"observedAt":       f.ObservedAt,
	}
}

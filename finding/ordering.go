package finding

import (
	"cmp"
	"slices"
	"strings"
)

// Deduplicate keeps, for each distinct id, the observation with the highest
// confidence. Ties keep the first one seen. The result lists ids in the order
// they were first seen and never aliases the input slice.
func Deduplicate(findings []Finding) []Finding {
	out := make([]Finding, 0, len(findings))
	index := make(map[string]int, len(findings))

	for _, f := range findings {
		f = f.Normalize()
		if i, ok := index[f.ID]; ok {
			if f.Confidence > out[i].Confidence {
				out[i] = f
			}
			continue
		}
		index[f.ID] = len(out)
		out = append(out, f)
	}
	return out
}

// Sort orders findings by severity rank descending, then confidence
// descending. The sort is stable: equal findings keep their relative order.
func Sort(findings []Finding) []Finding {
	out := slices.Clone(findings)
	slices.SortStableFunc(out, compareFindings)
	return out
}

func compareFindings(a, b Finding) int {
	if c := CompareSeverity(b.Severity, a.Severity); c != 0 {
		return c
	}
	return cmp.Compare(ClampConfidence(b.Confidence), ClampConfidence(a.Confidence))
}

// FilterByTags returns findings carrying at least one of tags.
// An empty tag list returns the input unchanged.
func FilterByTags(findings []Finding, tags ...string) []Finding {
	if len(tags) == 0 {
		return findings
	}
	return filter(findings, func(f *Finding) bool {
		for _, t := range tags {
			if f.HasTag(t) {
				return true
			}
		}
		return false
	})
}

// FilterBySeverity returns findings whose severity is one of severities.
// An empty severity list returns the input unchanged.
func FilterBySeverity(findings []Finding, severities ...Severity) []Finding {
	if len(severities) == 0 {
		return findings
	}
	return filter(findings, func(f *Finding) bool {
		return slices.Contains(severities, f.Severity)
	})
}

// FilterByProvider returns findings produced by one of providers, compared
// case-insensitively. An empty provider list returns the input unchanged.
func FilterByProvider(findings []Finding, providers ...string) []Finding {
	if len(providers) == 0 {
		return findings
	}
	return filter(findings, func(f *Finding) bool {
		for _, p := range providers {
			if strings.EqualFold(f.Provider, p) {
				return true
			}
		}
		return false
	})
}

// Groups maps finding types to their findings and remembers the order in
// which types were first seen.
type Groups struct {
	order  []Type
	byType map[Type][]Finding
}

// GroupByType groups findings by type, preserving input order within groups.
func GroupByType(findings []Finding) Groups {
	g := Groups{byType: make(map[Type][]Finding)}
	for _, f := range findings {
		if _, ok := g.byType[f.Type]; !ok {
			g.order = append(g.order, f.Type)
		}
		g.byType[f.Type] = append(g.byType[f.Type], f)
	}
	return g
}

// Types returns the grouped types in first-seen order.
func (g Groups) Types() []Type {
	return slices.Clone(g.order)
}

// Get returns the findings of type t.
func (g Groups) Get(t Type) []Finding {
	return g.byType[t]
}

// Map returns the groups as a plain map.
func (g Groups) Map() map[Type][]Finding {
	out := make(map[Type][]Finding, len(g.byType))
	for k, v := range g.byType {
		out[k] = v
	}
	return out
}

func filter(findings []Finding, keep func(*Finding) bool) []Finding {
	out := make([]Finding, 0, len(findings))
	for i := range findings {
		if keep(&findings[i]) {
			out = append(out, findings[i])
		}
	}
	return out
}

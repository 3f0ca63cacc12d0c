package correlate

import (
	"slices"

	"github.com/zero-day-ai/fusion/finding"
)

// Annotate writes correlations into the RelatedTo sets of findings in
// place. Links are recorded in both directions; RelatedTo ends up sorted
// and free of duplicates. Correlations naming unknown ids are ignored.
// Existing RelatedTo slices are copied before they are extended.
func Annotate(findings []finding.Finding, correlations []Correlation) {
	index := make(map[string][]int, len(findings))
	for i := range findings {
		index[findings[i].ID] = append(index[findings[i].ID], i)
		findings[i].RelatedTo = slices.Clone(findings[i].RelatedTo)
	}
	link := func(from, to string) {
		if _, ok := index[to]; !ok {
			return
		}
		for _, i := range index[from] {
			findings[i].AddRelated(to)
		}
	}

	for _, c := range correlations {
		for _, id := range c.RelatedIDs {
			link(c.FindingID, id)
			link(id, c.FindingID)
		}
	}
	for i := range findings {
		if len(findings[i].RelatedTo) > 1 {
			slices.Sort(findings[i].RelatedTo)
			findings[i].RelatedTo = slices.Compact(findings[i].RelatedTo)
		}
	}
}

package behavior

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zero-day-ai/fusion/finding"
)

const (
	topEmoji     = 5
	topHours     = 3
	topDays      = 2
	topPlatforms = 3
)

// Punctuation style tags.
const (
	StyleExclamation = "exclamation"
	StyleQuestion    = "question"
	StyleEllipsis    = "ellipsis"
)

// Linguistic summarizes the writing style of the text samples.
type Linguistic struct {
	AvgWordLength      float64  `json:"avgWordLength"`
	SentenceComplexity float64  `json:"sentenceComplexity"`
	VocabularyRichness float64  `json:"vocabularyRichness"`
	PunctuationStyle   []string `json:"punctuationStyle"`
}

// Emoji summarizes emoji usage.
type Emoji struct {
	Top     []string `json:"top"`
	Density float64  `json:"density"`
}

// Activity summarizes when findings were observed.
type Activity struct {
	// PeakHours are hours of day (0-23, UTC), busiest first.
	PeakHours []int `json:"peakHours"`

	// PeakDays are days of week (0=Sunday), busiest first.
	PeakDays []int `json:"peakDays"`

	// PostingFrequency is findings per day across the observed span.
	PostingFrequency float64 `json:"postingFrequency"`
}

// Platform summarizes where findings come from.
type Platform struct {
	Primary   []string `json:"primary"`
	Diversity int      `json:"diversity"`
}

// Profile is the behavioral profile of one identity. Profiles are only
// ever compared through Similarity, never merged.
type Profile struct {
	Linguistic Linguistic `json:"linguistic"`
	Emoji      Emoji      `json:"emoji"`
	Activity   Activity   `json:"activity"`
	Platform   Platform   `json:"platform"`
}

// Build derives a profile from the findings of one identity.
func Build(findings []finding.Finding) Profile {
	samples := textSamples(findings)
	return Profile{
		Linguistic: linguistic(samples),
		Emoji:      emoji(samples),
		Activity:   activity(findings),
		Platform:   platform(findings),
	}
}

func linguistic(samples []string) Linguistic {
	l := Linguistic{PunctuationStyle: []string{}}

	var tokens []string
	sentences := 0
	for _, s := range samples {
		tokens = append(tokens, strings.Fields(s)...)
		for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '!' || r == '?' }) {
			if strings.TrimSpace(part) != "" {
				sentences++
			}
		}
	}

	if len(tokens) > 0 {
		total := 0
		distinct := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			total += utf8.RuneCountInString(tok)
			distinct[strings.ToLower(tok)] = struct{}{}
		}
		l.AvgWordLength = float64(total) / float64(len(tokens))
		l.VocabularyRichness = float64(len(distinct)) / float64(len(tokens))
		if sentences > 0 {
			l.SentenceComplexity = float64(len(tokens)) / float64(sentences)
		}
	}

	joined := strings.Join(samples, "\n")
	if strings.Contains(joined, "!") {
		l.PunctuationStyle = append(l.PunctuationStyle, StyleExclamation)
	}
	if strings.Contains(joined, "?") {
		l.PunctuationStyle = append(l.PunctuationStyle, StyleQuestion)
	}
	if strings.Contains(joined, "...") {
		l.PunctuationStyle = append(l.PunctuationStyle, StyleEllipsis)
	}
	return l
}

func emoji(samples []string) Emoji {
	counts := newCounter[string]()
	chars, found := 0, 0
	for _, s := range samples {
		for _, r := range s {
			chars++
			if IsEmoji(r) {
				found++
				counts.add(string(r))
			}
		}
	}

	e := Emoji{Top: counts.top(topEmoji)}
	if chars > 0 {
		e.Density = float64(found) / float64(chars)
	}
	return e
}

func activity(findings []finding.Finding) Activity {
	var hours [24]int
	var days [7]int
	var first, last time.Time
	stamped := 0

	for _, f := range findings {
		if f.ObservedAt.IsZero() {
			continue
		}
		t := f.ObservedAt.UTC()
		hours[t.Hour()]++
		days[int(t.Weekday())]++
		if stamped == 0 || t.Before(first) {
			first = t
		}
		if stamped == 0 || t.After(last) {
			last = t
		}
		stamped++
	}

	a := Activity{
		PeakHours: peakBuckets(hours[:], topHours),
		PeakDays:  peakBuckets(days[:], topDays),
	}
	if stamped > 0 {
		spanDays := last.Sub(first).Hours() / 24
		if spanDays < 1 {
			spanDays = 1
		}
		a.PostingFrequency = float64(stamped) / spanDays
	}
	return a
}

func platform(findings []finding.Finding) Platform {
	counts := newCounter[string]()
	for _, f := range findings {
		if p := strings.TrimSpace(f.Provider); p != "" {
			counts.add(p)
		}
	}
	return Platform{
		Primary:   counts.top(topPlatforms),
		Diversity: counts.len(),
	}
}

// peakBuckets returns the indexes of the n busiest non-empty buckets; equal
// counts keep bucket index order.
func peakBuckets(hist []int, n int) []int {
	idx := make([]int, 0, len(hist))
	for i, c := range hist {
		if c > 0 {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(hist[b], hist[a]) })
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}

// counter counts keys and remembers first-seen order for tie-breaking.
type counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter[K]) len() int { return len(c.order) }

// top returns up to n keys by descending count, ties in first-seen order.
func (c *counter[K]) top(n int) []K {
	keys := slices.Clone(c.order)
	slices.SortStableFunc(keys, func(a, b K) int { return cmp.Compare(c.counts[b], c.counts[a]) })
	if len(keys) > n {
		keys = keys[:n]
	}
	if keys == nil {
		keys = []K{}
	}
	return keys
}

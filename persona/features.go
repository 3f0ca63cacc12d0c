package persona

import (
	"regexp"
	"slices"
	"strings"

	"github.com/zero-day-ai/fusion/behavior"
	"github.com/zero-day-ai/fusion/finding"
)

// NumericToken replaces username segments made only of digits.
const NumericToken = "###"

// minTokenLength is the shortest alphabetic username segment kept.
const minTokenLength = 3

// Bio tags. Bios are reduced to these tags so no free text is retained.
const (
	TagEmoji    = "EMOJI"
	TagPronouns = "PRONOUNS"
	TagExec     = "EXEC"
	TagTech     = "TECH"
)

var (
	pronounPattern = regexp.MustCompile(`(?i)\b(he|she|they|xe|ze)\s*/\s*(him|her|them|hers|theirs|xem|zir)\b`)
	execPattern    = regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|ciso|founder|co-founder|cofounder|president|director|vp|executive|chairman|owner)\b`)
	techPattern    = regexp.MustCompile(`(?i)\b(developer|engineer|programmer|hacker|devops|software|coder|security|infosec|sysadmin|golang|python|javascript|rust)\b`)
	alphaPattern   = regexp.MustCompile(`^[a-z]+$`)
	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Features is the PII-reduced feature tuple a fingerprint is derived from.
// Token lists are de-duplicated and sorted.
type Features struct {
	UsernameTokens []string `json:"usernameTokens"`
	PlatformMix    []string `json:"platformMix"`

	// ActivityPattern counts observations per weekday, Sunday first.
	ActivityPattern []int `json:"activityPattern"`

	BioTokens []string `json:"bioTokens"`

	// CadenceHistogram counts observations per UTC hour of day.
	CadenceHistogram []int `json:"cadenceHistogram"`
}

// Extract derives Features from the findings of one identity. The result
// does not depend on the order of findings.
func Extract(findings []finding.Finding) Features {
	usernames := map[string]struct{}{}
	platforms := map[string]struct{}{}
	bio := map[string]struct{}{}
	days := make([]int, 7)
	hours := make([]int, 24)

	for i := range findings {
		f := &findings[i]
		for _, u := range f.EvidenceValues("username") {
			for _, tok := range usernameTokens(u) {
				usernames[tok] = struct{}{}
			}
		}
		for _, b := range f.EvidenceValues("bio") {
			for _, tag := range bioTags(b) {
				bio[tag] = struct{}{}
			}
		}
		if p := strings.ToLower(strings.TrimSpace(f.Provider)); p != "" {
			platforms[p] = struct{}{}
		}
		if !f.ObservedAt.IsZero() {
			t := f.ObservedAt.UTC()
			days[int(t.Weekday())]++
			hours[t.Hour()]++
		}
	}

	return Features{
		UsernameTokens:   sortedKeys(usernames),
		PlatformMix:      sortedKeys(platforms),
		ActivityPattern:  days,
		BioTokens:        sortedKeys(bio),
		CadenceHistogram: hours,
	}
}

func usernameTokens(username string) []string {
	parts := strings.FieldsFunc(strings.ToLower(username), func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	var out []string
	for _, p := range parts {
		switch {
		case numericPattern.MatchString(p):
			out = append(out, NumericToken)
		case alphaPattern.MatchString(p) && len(p) >= minTokenLength:
			out = append(out, p)
		}
	}
	return out
}

func bioTags(bio string) []string {
	var tags []string
	if strings.ContainsFunc(bio, behavior.IsEmoji) {
		tags = append(tags, TagEmoji)
	}
	if pronounPattern.MatchString(bio) {
		tags = append(tags, TagPronouns)
	}
	if execPattern.MatchString(bio) {
		tags = append(tags, TagExec)
	}
	if techPattern.MatchString(bio) {
		tags = append(tags, TagTech)
	}
	return tags
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

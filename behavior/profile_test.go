package behavior

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/fusion/finding"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func post(provider string, at time.Time, key, text string) finding.Finding {
	f := finding.NewFinding(provider, "profile", at.String()+text, finding.TypeSocialMedia, finding.SeverityInfo, "profile", at)
	if key != "" {
		f.Evidence = append(f.Evidence, finding.NewEvidence(key, text))
	}
	return f
}

func TestBuild_Empty(t *testing.T) {
	p := Build(nil)

	assert.Zero(t, p.Linguistic.AvgWordLength)
	assert.Zero(t, p.Linguistic.SentenceComplexity)
	assert.Zero(t, p.Linguistic.VocabularyRichness)
	assert.Empty(t, p.Linguistic.PunctuationStyle)
	assert.NotNil(t, p.Linguistic.PunctuationStyle)
	assert.Empty(t, p.Emoji.Top)
	assert.Zero(t, p.Emoji.Density)
	assert.Empty(t, p.Activity.PeakHours)
	assert.Empty(t, p.Activity.PeakDays)
	assert.Zero(t, p.Activity.PostingFrequency)
	assert.Empty(t, p.Platform.Primary)
	assert.Zero(t, p.Platform.Diversity)
}

func TestBuild_Linguistic(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", monday, "bio", "Hello world. Go is fun!")})

	// Hello(5) world.(6) Go(2) is(2) fun!(4)
	assert.InDelta(t, 3.8, p.Linguistic.AvgWordLength, 1e-9)
	assert.InDelta(t, 2.5, p.Linguistic.SentenceComplexity, 1e-9)
	assert.InDelta(t, 1.0, p.Linguistic.VocabularyRichness, 1e-9)
	assert.Equal(t, []string{StyleExclamation}, p.Linguistic.PunctuationStyle)
}

func TestBuild_VocabularyIsCaseInsensitive(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", monday, "post", "go Go GO stop")})
	assert.InDelta(t, 0.5, p.Linguistic.VocabularyRichness, 1e-9)
}

func TestBuild_PunctuationStyle(t *testing.T) {
	p := Build([]finding.Finding{
		post("twitter", monday, "BIO", "really? yes!"),
		post("reddit", monday, "description", "well..."),
	})
	assert.Equal(t, []string{StyleExclamation, StyleQuestion, StyleEllipsis}, p.Linguistic.PunctuationStyle)
}

func TestBuild_IgnoresOtherEvidence(t *testing.T) {
	f := post("twitter", monday, "username", "not a sample!")
	f.Evidence = append(f.Evidence, finding.NewEvidence("bio", finding.Unknown))

	p := Build([]finding.Finding{f})
	assert.Zero(t, p.Linguistic.AvgWordLength)
	assert.Empty(t, p.Linguistic.PunctuationStyle)
}

func TestBuild_StripsMarkup(t *testing.T) {
	p := Build([]finding.Finding{post("github", monday, "post", "<p>Hello <b>there</b></p>")})
	assert.InDelta(t, 5.0, p.Linguistic.AvgWordLength, 1e-9)
}

func TestBuild_Emoji(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", monday, "bio", "🚀🚀☕ hi")})

	assert.Equal(t, []string{"🚀", "☕"}, p.Emoji.Top)
	assert.InDelta(t, 0.5, p.Emoji.Density, 1e-9)
}

func TestBuild_EmojiTopFiveFirstSeen(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", monday, "bio", "😀😁😂😃😄😅😅")})
	assert.Equal(t, []string{"😅", "😀", "😁", "😂", "😃"}, p.Emoji.Top)
}

func TestBuild_Activity(t *testing.T) {
	findings := []finding.Finding{
		post("twitter", monday.Add(14*time.Hour), "", ""),
		post("twitter", monday.Add(2*24*time.Hour+14*time.Hour), "", ""),
		post("github", monday.Add(2*24*time.Hour+9*time.Hour), "", ""),
		post("github", monday.Add(4*24*time.Hour+14*time.Hour), "", ""),
		post("github", monday.Add(4*24*time.Hour+20*time.Hour), "", ""),
	}

	p := Build(findings)

	require.Len(t, p.Activity.PeakHours, 3)
	assert.Equal(t, []int{14, 9, 20}, p.Activity.PeakHours)
	// Wednesday and Friday both have two, Wednesday has the lower index.
	assert.Equal(t, []int{int(time.Wednesday), int(time.Friday)}, p.Activity.PeakDays)
	// 5 findings over 4.25 days.
	assert.InDelta(t, 5/4.25, p.Activity.PostingFrequency, 1e-9)
}

func TestBuild_ActivitySingleTimestamp(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", monday.Add(3*time.Hour), "", "")})

	assert.Equal(t, []int{3}, p.Activity.PeakHours)
	assert.Equal(t, []int{int(time.Monday)}, p.Activity.PeakDays)
	assert.InDelta(t, 1.0, p.Activity.PostingFrequency, 1e-9)
}

func TestBuild_ActivitySkipsMissingTimestamps(t *testing.T) {
	p := Build([]finding.Finding{post("twitter", time.Time{}, "", "")})

	assert.Empty(t, p.Activity.PeakHours)
	assert.Zero(t, p.Activity.PostingFrequency)
}

func TestBuild_Platform(t *testing.T) {
	findings := []finding.Finding{
		post("reddit", monday, "", ""),
		post("twitter", monday, "", ""),
		post("github", monday, "", ""),
		post("twitter", monday, "", ""),
		post("linkedin", monday, "", ""),
	}

	p := Build(findings)

	assert.Equal(t, []string{"twitter", "reddit", "github"}, p.Platform.Primary)
	assert.Equal(t, 4, p.Platform.Diversity)
}

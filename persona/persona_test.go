package persona

import (
	"context"
	"crypto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/fusion/finding"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func identity(provider string, at time.Time, username, bio string) finding.Finding {
	f := finding.NewFinding(provider, "account", username, finding.TypeSocialMedia, finding.SeverityInfo, "account found", at)
	if username != "" {
		f.Evidence = append(f.Evidence, finding.NewEvidence("username", username))
	}
	if bio != "" {
		f.Evidence = append(f.Evidence, finding.NewEvidence("bio", bio))
	}
	return f
}

func fixture() []finding.Finding {
	return []finding.Finding{
		identity("GitHub", monday.Add(14*time.Hour), "John.Doe_1987", "Software engineer 🚀 he/him"),
		identity("twitter", monday.Add(2*24*time.Hour+9*time.Hour), "john-doe", "Founder & CEO"),
	}
}

func TestExtract(t *testing.T) {
	f := Extract(fixture())

	assert.Equal(t, []string{NumericToken, "doe", "john"}, f.UsernameTokens)
	assert.Equal(t, []string{"github", "twitter"}, f.PlatformMix)
	assert.Equal(t, []int{0, 1, 0, 1, 0, 0, 0}, f.ActivityPattern)
	assert.Equal(t, []string{TagEmoji, TagExec, TagPronouns, TagTech}, f.BioTokens)
	require.Len(t, f.CadenceHistogram, 24)
	assert.Equal(t, 1, f.CadenceHistogram[9])
	assert.Equal(t, 1, f.CadenceHistogram[14])
}

func TestExtract_UsernameTokens(t *testing.T) {
	tests := []struct {
		username string
		want     []string
	}{
		{"alice", []string{"alice"}},
		{"al_42", []string{NumericToken}},
		{"bob99.smith", []string{"smith"}},
		{"a.b-c", []string{}},
		{"MARY--Jane..2001", []string{NumericToken, "jane", "mary"}},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			f := Extract([]finding.Finding{identity("x", time.Time{}, tt.username, "")})
			assert.Equal(t, tt.want, f.UsernameTokens)
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	f := Extract(nil)

	assert.Empty(t, f.UsernameTokens)
	assert.Empty(t, f.PlatformMix)
	assert.Empty(t, f.BioTokens)
	assert.Equal(t, make([]int, 7), f.ActivityPattern)
	assert.Equal(t, make([]int, 24), f.CadenceHistogram)
	assert.Zero(t, Confidence(f))
}

func TestSerialize(t *testing.T) {
	got := Serialize(Extract(fixture()), DefaultSalt)
	want := "###|doe|john::github|twitter::0,1,0,1,0,0,0::EMOJI|EXEC|PRONOUNS|TECH::" +
		"0,0,0,0,0,0,0,0,0,1,0,0,0,0,1,0,0,0,0,0,0,0,0,0::fusion-persona-dna-v1"
	assert.Equal(t, want, got)
}

func TestCompute(t *testing.T) {
	dna, err := Compute(context.Background(), fixture(), DefaultSalt)
	require.NoError(t, err)

	assert.Equal(t, "04cba379cf3cc534", dna.DNA)
	assert.Len(t, dna.DNA, 16)
	assert.Equal(t, 1.0, dna.Confidence)
}

func TestCompute_Empty(t *testing.T) {
	dna, err := Compute(context.Background(), nil, DefaultSalt)
	require.NoError(t, err)

	assert.Equal(t, "2a2219065ae34b23", dna.DNA)
	assert.Zero(t, dna.Confidence)
}

func TestCompute_OrderIndependent(t *testing.T) {
	base := append(fixture(), identity("reddit", monday.Add(5*24*time.Hour), "doe_john", "they/them"))
	want, err := Compute(context.Background(), base, DefaultSalt)
	require.NoError(t, err)

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, p := range perms {
		shuffled := []finding.Finding{base[p[0]], base[p[1]], base[p[2]]}
		got, err := Compute(context.Background(), shuffled, DefaultSalt)
		require.NoError(t, err)
		assert.Equal(t, want.DNA, got.DNA, "perm %v", p)
		assert.Equal(t, want.Features, got.Features, "perm %v", p)
	}
}

func TestCompute_SaltChangesDNA(t *testing.T) {
	a, err := Compute(context.Background(), fixture(), DefaultSalt)
	require.NoError(t, err)
	b, err := Compute(context.Background(), fixture(), "other-salt")
	require.NoError(t, err)

	assert.NotEqual(t, a.DNA, b.DNA)
	assert.Equal(t, a.Features, b.Features)
}

func TestCompute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, fixture(), DefaultSalt)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompute_HashUnavailable(t *testing.T) {
	orig := digest
	digest = crypto.Hash(0)
	t.Cleanup(func() { digest = orig })

	_, err := Compute(context.Background(), fixture(), DefaultSalt)
	assert.ErrorIs(t, err, ErrHashUnavailable)
	assert.False(t, HashAvailable())
}

func TestConfidence(t *testing.T) {
	f := Features{
		PlatformMix:     []string{"reddit"},
		ActivityPattern: []int{0, 3, 0, 0, 0, 0, 0},
	}
	assert.InDelta(t, 0.3+0.2/7, Confidence(f), 1e-9)
}

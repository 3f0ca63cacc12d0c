package persona

import (
	"context"
	"crypto"
	_ "crypto/sha256" // registers crypto.SHA256
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
)

// DefaultSalt is the public salt mixed into every fingerprint.
const DefaultSalt = "fusion-persona-dna-v1"

// dnaLength is the number of hex characters kept from the digest.
const dnaLength = 16

// ErrHashUnavailable is returned when the SHA-256 primitive is not linked
// into the running binary.
var ErrHashUnavailable = errors.New("persona: SHA-256 hash unavailable")

// digest is the hash used for fingerprints; replaced in tests.
var digest = crypto.SHA256

// DNA is a persona fingerprint: a short salted one-way identifier plus the
// features it was computed from.
type DNA struct {
	DNA        string   `json:"dna"`
	Features   Features `json:"features"`
	Confidence float64  `json:"confidence"`
}

// Compute extracts features from findings and fingerprints them with salt.
// Identical feature sets always produce the identical DNA regardless of
// finding order. The 64-bit identifier is meant for display and correlation
// and is not collision proof.
func Compute(ctx context.Context, findings []finding.Finding, salt string) (DNA, error) {
	features := Extract(findings)
	if err := ctx.Err(); err != nil {
		return DNA{}, err
	}

	sum, err := Hash(Serialize(features, salt))
	if err != nil {
		return DNA{}, err
	}
	return DNA{
		DNA:        sum,
		Features:   features,
		Confidence: Confidence(features),
	}, nil
}

// Serialize renders features in the canonical form that is hashed:
//
//	usernames :: platforms :: weekdays :: bio :: hours :: salt
//
// with lists joined by "|" and histograms by ",".
func Serialize(f Features, salt string) string {
	return strings.Join([]string{
		strings.Join(f.UsernameTokens, "|"),
		strings.Join(f.PlatformMix, "|"),
		joinInts(f.ActivityPattern),
		strings.Join(f.BioTokens, "|"),
		joinInts(f.CadenceHistogram),
		salt,
	}, "::")
}

// HashAvailable reports whether the fingerprint hash is linked into the
// binary.
func HashAvailable() bool {
	return digest.Available()
}

// Hash returns the first 16 hex characters of the SHA-256 digest of s.
func Hash(s string) (string, error) {
	if !digest.Available() {
		return "", ErrHashUnavailable
	}
	h := digest.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))[:dnaLength], nil
}

// Confidence rates how much signal a feature set carries, in [0,1].
func Confidence(f Features) float64 {
	active := 0
	for _, c := range f.ActivityPattern {
		if c > 0 {
			active++
		}
	}
	c := 0.3*float64(len(f.UsernameTokens)) +
		0.3*float64(len(f.PlatformMix)) +
		0.2*float64(len(f.BioTokens)) +
		0.2*(float64(active)/7)
	return math.Min(1, c)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

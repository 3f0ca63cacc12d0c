package behavior

import (
	"math"
	"slices"
)

// Weights controls how the four profile dimensions contribute to Similarity.
type Weights struct {
	Linguistic float64 `yaml:"linguistic" json:"linguistic"`
	Emoji      float64 `yaml:"emoji" json:"emoji"`
	Activity   float64 `yaml:"activity" json:"activity"`
	Platform   float64 `yaml:"platform" json:"platform"`
}

// DefaultWeights returns the standard 30/20/30/20 weighting.
func DefaultWeights() Weights {
	return Weights{Linguistic: 0.3, Emoji: 0.2, Activity: 0.3, Platform: 0.2}
}

// maxWordLengthDelta is the average word length difference at which the
// linguistic dimension stops contributing.
const maxWordLengthDelta = 10.0

// Similarity scores how closely b resembles a using the default weights.
//
// The measure is asymmetric: set overlaps are divided by the size of a's
// set, so Similarity(a, b) and Similarity(b, a) generally differ.
func Similarity(a, b Profile) float64 {
	return DefaultWeights().Similarity(a, b)
}

// Similarity scores how closely b resembles a. The result is in [0,1]
// for non-negative weights summing to 1, rounded to two decimals.
func (w Weights) Similarity(a, b Profile) float64 {
	ling := 1 - math.Abs(a.Linguistic.AvgWordLength-b.Linguistic.AvgWordLength)/maxWordLengthDelta
	if ling < 0 {
		ling = 0
	}

	total := w.Linguistic*ling +
		w.Emoji*overlap(a.Emoji.Top, b.Emoji.Top) +
		w.Activity*overlap(a.Activity.PeakHours, b.Activity.PeakHours) +
		w.Platform*overlap(a.Platform.Primary, b.Platform.Primary)
	return math.Round(total*100) / 100
}

// overlap returns the fraction of a's members also present in b; an empty a
// yields 0.
func overlap[T comparable](a, b []T) float64 {
	if len(a) == 0 {
		return 0
	}
	shared := 0
	for _, v := range a {
		if slices.Contains(b, v) {
			shared++
		}
	}
	return float64(shared) / float64(len(a))
}

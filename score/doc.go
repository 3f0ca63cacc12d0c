// Package score computes per-entity exposure and confidence scores.
//
// The exposure score sums severity points scaled by confidence and adds a
// bonus per distinct provider. Scores above 80 are compressed so large
// finding counts approach 100 slowly. The same Weights table also backs the
// batch safety score in package correlate, which has the opposite polarity.
package score

// Package behavior builds behavioral profiles for a single identity from its
// findings and compares them.
//
// A Profile captures four dimensions: writing style of free-text evidence
// (bio, description and post values), emoji usage, the hours and weekdays at
// which findings were observed, and the providers they came from. Top-N
// selections break ties by first-seen order so a profile is reproducible for
// a given input order.
//
// Similarity is deliberately asymmetric:
//
//	ab := behavior.Similarity(a, b)
//	ba := behavior.Similarity(b, a) // may differ from ab
package behavior

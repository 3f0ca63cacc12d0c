// Package correlate links findings of one scan to each other and
// summarizes the batch.
//
// Three fixed passes cross-join findings by type: breaches with identity
// findings, domain reputation with domain technology findings, and IP
// exposure with every domain finding. The join is deliberately coarse and
// sized for per-scan batches; Config.MaxPairs bounds it for larger ones.
// Findings sharing a username or email evidence value can also be linked,
// and custom rules can be written in CEL.
package correlate

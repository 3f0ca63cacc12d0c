// Package persona computes persona fingerprints ("DNA").
//
// A fingerprint is derived from coarse features of an identity's findings:
// username tokens, the providers it appears on, weekday and hour activity
// histograms, and a handful of bio tags. Raw bios and usernames are never
// part of the output. The features are serialized in a fixed order, salted
// and hashed with SHA-256, and the first 16 hex characters are kept.
//
//	dna, err := persona.Compute(ctx, findings, persona.DefaultSalt)
//	if errors.Is(err, persona.ErrHashUnavailable) {
//		// the binary was built without crypto/sha256
//	}
package persona

// Package carrier fuses phone-number observations from several providers
// into one resolved record.
//
// Each attribute is resolved independently. If every provider that reported
// a value agrees (case-insensitively), the most confident one supplies the
// value. If they disagree, a per-field provider priority table decides and
// the conflict is recorded. Risk fields are composed afterwards by
// ApplyRisk from the most trusted risk provider.
//
//	fuser := carrier.NewFuser(nil)
//	merged := fuser.ApplyRisk(fuser.Merge(obs), obs)
//	summary := carrier.MergedFinding("+15550100", merged, time.Now())
//	extra := carrier.RiskFindings("+15550100", merged, time.Now())
package carrier

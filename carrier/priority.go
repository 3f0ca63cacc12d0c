package carrier

// defaultPriority applies to providers missing from a field's table.
const defaultPriority = 50

// Priorities holds per-field provider trust rankings. Higher is more trusted.
// Fields without their own table use the carrier table.
type Priorities map[Field]map[string]int

// DefaultPriorities returns the built-in provider rankings: carrier lookup
// specialists lead on carrier and location, line-type specialists on line
// type, and risk specialists on risk.
func DefaultPriorities() Priorities {
	return Priorities{
		FieldCarrier: {
			"numverify":      95,
			"twilio_lookup":  90,
			"ipqs_phone":     80,
			"abstract_phone": 75,
		},
		FieldLineType: {
			"numverify":      90,
			"twilio_lookup":  95,
			"ipqs_phone":     85,
			"abstract_phone": 80,
		},
		FieldLocation: {
			"numverify":      95,
			"ipqs_phone":     85,
			"abstract_phone": 80,
			"twilio_lookup":  75,
		},
		FieldRisk: {
			"ipqs_phone":     95,
			"numverify":      50,
			"abstract_phone": 60,
			"twilio_lookup":  55,
		},
	}
}

// Table returns the ranking table used for field.
func (p Priorities) Table(field Field) map[string]int {
	if t, ok := p[field]; ok {
		return t
	}
	return p[FieldCarrier]
}

// Rank returns the priority of provider for field.
func (p Priorities) Rank(field Field, provider string) int {
	if r, ok := p.Table(field)[provider]; ok {
		return r
	}
	return defaultPriority
}

// Clone returns a deep copy so callers can adjust rankings without touching
// shared tables.
func (p Priorities) Clone() Priorities {
	out := make(Priorities, len(p))
	for field, table := range p {
		t := make(map[string]int, len(table))
		for k, v := range table {
			t[k] = v
		}
		out[field] = t
	}
	return out
}

package carrier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(provider string, conf float64, carrierName string) Observation {
	return Observation{
		Carrier:    carrierName,
		Provider:   provider,
		Confidence: conf,
		ObservedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveField_Consensus(t *testing.T) {
	f := NewFuser(nil)
	input := []Observation{
		obs("abstract_phone", 0.70, "Verizon"),
		obs("numverify", 0.90, " verizon "),
		obs("ipqs_phone", 0.95, "VERIZON"),
	}

	res := f.ResolveField(input, FieldCarrier)

	assert.False(t, res.ConflictDetected)
	assert.Equal(t, MethodConsensus, res.Method)
	assert.Equal(t, "VERIZON", res.ResolvedValue)
	assert.Equal(t, "ipqs_phone", res.ResolvedProvider)
	assert.Len(t, res.Values, 3)
}

func TestResolveField_ConsensusSameName(t *testing.T) {
	f := NewFuser(nil)
	for n := 1; n <= 5; n++ {
		var input []Observation
		for i := 0; i < n; i++ {
			input = append(input, obs("twilio_lookup", 0.5+float64(i)/20, "T-Mobile"))
		}
		res := f.ResolveField(input, FieldCarrier)
		assert.False(t, res.ConflictDetected, "n=%d", n)
		assert.Equal(t, "T-Mobile", res.ResolvedValue, "n=%d", n)
	}
}

func TestResolveField_PriorityConflict(t *testing.T) {
	f := NewFuser(nil)
	input := []Observation{
		obs("abstract_phone", 0.75, "AT&T"),
		obs("numverify", 0.9, "Verizon"),
	}

	res := f.ResolveField(input, FieldCarrier)

	assert.True(t, res.ConflictDetected)
	assert.Equal(t, MethodPriority, res.Method)
	assert.Equal(t, "Verizon", res.ResolvedValue)
	assert.Equal(t, "numverify", res.ResolvedProvider)
}

func TestResolveField_PriorityDiffersByField(t *testing.T) {
	f := NewFuser(nil)
	input := []Observation{
		{LineType: "mobile", Provider: "numverify", Confidence: 0.99},
		{LineType: "voip", Provider: "twilio_lookup", Confidence: 0.60},
	}

	res := f.ResolveField(input, FieldLineType)
	assert.Equal(t, "voip", res.ResolvedValue, "twilio_lookup leads line type")
}

func TestResolveField_UnknownProviderTieBrokenByConfidence(t *testing.T) {
	f := NewFuser(nil)
	input := []Observation{
		obs("vendor_a", 0.6, "Sprint"),
		obs("vendor_b", 0.8, "Telus"),
	}

	res := f.ResolveField(input, FieldCarrier)
	assert.True(t, res.ConflictDetected)
	assert.Equal(t, "Telus", res.ResolvedValue)
}

func TestResolveField_DropsUnusable(t *testing.T) {
	f := NewFuser(nil)
	input := []Observation{
		obs("numverify", 0.9, "Unknown"),
		obs("twilio_lookup", 0.9, ""),
		obs("ipqs_phone", 0.4, "Rogers"),
	}

	res := f.ResolveField(input, FieldCarrier)
	assert.False(t, res.ConflictDetected)
	assert.Equal(t, "Rogers", res.ResolvedValue)

	empty := f.ResolveField([]Observation{obs("numverify", 1, "unknown")}, FieldCarrier)
	assert.Equal(t, "", empty.ResolvedValue)
	assert.Equal(t, "none", empty.ResolvedProvider)
	assert.Empty(t, empty.Values)
}

func TestFieldConfidence(t *testing.T) {
	tests := []struct {
		name  string
		input []Observation
		want  float64
	}{
		{"no observations", nil, 0},
		{"single observation", []Observation{obs("numverify", 0.7, "")}, 0.7},
		{"full agreement", []Observation{obs("a", 0.8, "X"), obs("b", 0.6, "x")}, 0.8},
		{"majority agreement", []Observation{obs("a", 0.8, "X"), obs("b", 0.6, "x"), obs("c", 0.7, "X"), obs("d", 0.9, "Y")}, 0.75},
		{"two thirds is not a majority", []Observation{obs("a", 0.8, "X"), obs("b", 0.6, "x"), obs("c", 0.9, "Y")}, 0.6},
		{"split", []Observation{obs("a", 0.8, "X"), obs("b", 0.6, "Y")}, 0.7},
		{"clamped", []Observation{obs("a", 0.99, "X"), obs("b", 0.97, "X")}, 1},
		{"no values", []Observation{obs("a", 0.9, ""), obs("b", 0.9, "Unknown")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FieldConfidence(tt.input, FieldCarrier), 1e-9)
		})
	}
}

func TestMerge(t *testing.T) {
	input := []Observation{
		{
			Carrier: "Verizon", LineType: "mobile", Country: "United States", CountryCode: "US",
			Location: "New York", InternationalFormat: "+1 555-0100",
			Provider: "numverify", Confidence: 0.9,
		},
		{
			Carrier: "AT&T", LineType: "mobile", Country: "united states", CountryCode: "US",
			Provider: "abstract_phone", Confidence: 0.75,
		},
	}

	merged := Merge(input)

	assert.Equal(t, "Verizon", merged.Carrier)
	assert.Equal(t, "mobile", merged.LineType)
	assert.Equal(t, "United States", merged.Country)
	assert.Equal(t, "New York", merged.Location)
	assert.Equal(t, []string{"numverify", "abstract_phone"}, merged.Sources)
	assert.Equal(t, 2, merged.SourceCount)
	assert.True(t, merged.HasConflicts)
	require.Len(t, merged.ConflictResolutions, 1)
	assert.Equal(t, FieldCarrier, merged.ConflictResolutions[0].Field)

	// carrier: split 0.9/0.75 -> 0.9-0.1; lineType and country: mean 0.825 + 0.1
	want := (0.8 + 0.925 + 0.925) / 3
	assert.InDelta(t, want, merged.OverallConfidence, 1e-9)

	assert.Nil(t, merged.RiskScore)
	assert.False(t, merged.IsVoIP)
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(nil)
	assert.Equal(t, 0, merged.SourceCount)
	assert.Equal(t, 0.0, merged.OverallConfidence)
	assert.False(t, merged.HasConflicts)
	assert.NotNil(t, merged.Sources)
}

func TestNewFuser_CustomPriorities(t *testing.T) {
	p := DefaultPriorities()
	p[FieldCarrier]["abstract_phone"] = 99
	f := NewFuser(p)

	res := f.ResolveField([]Observation{
		obs("abstract_phone", 0.75, "AT&T"),
		obs("numverify", 0.9, "Verizon"),
	}, FieldCarrier)
	assert.Equal(t, "AT&T", res.ResolvedValue)

	p[FieldCarrier]["abstract_phone"] = 1
	res = f.ResolveField([]Observation{
		obs("abstract_phone", 0.75, "AT&T"),
		obs("numverify", 0.9, "Verizon"),
	}, FieldCarrier)
	assert.Equal(t, "AT&T", res.ResolvedValue, "fuser keeps its own copy of the table")
}

func TestPriorities_FallbackTable(t *testing.T) {
	p := DefaultPriorities()
	assert.Equal(t, 95, p.Rank(FieldCountry, "numverify"))
	assert.Equal(t, 50, p.Rank(FieldCarrier, "someone_else"))
	assert.Equal(t, 95, p.Rank(FieldRisk, "ipqs_phone"))
}

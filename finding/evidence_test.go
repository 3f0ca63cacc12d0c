package finding

import "testing"

func TestEvidence_Coercion(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantString string
		wantFloat  float64
		wantBool   bool
		wantUnk    bool
	}{
		{"nil", nil, "", 0, false, true},
		{"string", "jdoe", "jdoe", 0, false, false},
		{"numeric string", " 42.5 ", " 42.5 ", 42.5, false, false},
		{"bool string", "true", "true", 0, true, false},
		{"float", 3.0, "3", 3, true, false},
		{"int", 7, "7", 7, true, false},
		{"bool", true, "true", 0, true, false},
		{"unknown placeholder", "unknown", "unknown", 0, false, true},
		{"blank", "   ", "   ", 0, false, true},
		{"map", map[string]any{"a": 1}, "map[a:1]", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvidence("k", tt.value)
			if got := ev.AsString(); got != tt.wantString {
				t.Errorf("AsString() = %q, want %q", got, tt.wantString)
			}
			if got := ev.AsFloat(); got != tt.wantFloat {
				t.Errorf("AsFloat() = %v, want %v", got, tt.wantFloat)
			}
			if got := ev.AsBool(); got != tt.wantBool {
				t.Errorf("AsBool() = %v, want %v", got, tt.wantBool)
			}
			if got := ev.IsUnknown(); got != tt.wantUnk {
				t.Errorf("IsUnknown() = %v, want %v", got, tt.wantUnk)
			}
		})
	}
}

func TestEvidence_WithMetadata(t *testing.T) {
	base := NewEvidence("bio", "hello")
	a := base.WithMetadata("lang", "en")
	b := a.WithMetadata("source", "profile")

	if base.Metadata != nil {
		t.Error("WithMetadata() mutated the receiver")
	}
	if len(a.Metadata) != 1 || len(b.Metadata) != 2 {
		t.Errorf("metadata sizes = %d, %d, want 1, 2", len(a.Metadata), len(b.Metadata))
	}
}

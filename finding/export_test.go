package finding

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExport_JSON(t *testing.T) {
	f := mk("a", SeverityHigh, 0.8)
	f.RelatedTo = []string{"b"}

	var buf bytes.Buffer
	if err := Export(&buf, []Finding{f}, FormatJSON); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded[0]["relatedTo"].([]any)[0] != "b" {
		t.Errorf("relatedTo not exported: %v", decoded[0])
	}
	if _, ok := decoded[0]["observedAt"]; !ok {
		t.Error("observedAt missing from JSON output")
	}
}

func TestExport_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil, FormatJSON); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Export(nil) = %q, want []", buf.String())
	}
}

func TestExport_CSV(t *testing.T) {
	f := mk("a", SeverityHigh, 0.8)
	f.Tags = []string{"x", "y"}

	var buf bytes.Buffer
	if err := Export(&buf, []Finding{f}, FormatCSV); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[1], "a,breach,high,0.80,hibp,,a,x;y,,2026-01-02T03:04:05Z") {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[1], ",Data Breach") {
		t.Errorf("type display name missing: %s", lines[1])
	}
}

func TestExportFormat_FileExtension(t *testing.T) {
	tests := []struct {
		format ExportFormat
		want   string
	}{
		{FormatJSON, ".json"},
		{FormatCSV, ".csv"},
		{ExportFormat("sarif"), ""},
	}
	for _, tt := range tests {
		if got := tt.format.FileExtension(); got != tt.want {
			t.Errorf("%s.FileExtension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestExport_InvalidFormat(t *testing.T) {
	if err := Export(&bytes.Buffer{}, nil, ExportFormat("sarif")); err == nil {
		t.Error("Export() should reject unknown formats")
	}
}

func TestFilter_Apply(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var input []Finding
	for i := 0; i < 5; i++ {
		f := mk(string(rune('a'+i)), SeverityMedium, float64(i)/4)
		f.ObservedAt = base.Add(time.Duration(i) * time.Hour)
		input = append(input, f)
	}

	filter := Filter{
		MinConfidence: 0.25,
		ObservedAfter: base.Add(30 * time.Minute),
		Offset:        1,
		Limit:         2,
	}
	if err := filter.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got := ids(filter.Apply(input))
	if strings.Join(got, ",") != "c,d" {
		t.Errorf("Apply() = %v, want [c d]", got)
	}

	bad := Filter{Limit: -1}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject negative limit")
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion/carrier"
	"github.com/zero-day-ai/fusion/finding"
)

// batch is the object form of a findings file.
type batch struct {
	ScanID   string            `json:"scanId"`
	Findings []finding.Finding `json:"findings"`
}

// decodeFindings accepts either a JSON array of findings or an object with
// "scanId" and "findings" keys.
func decodeFindings(r io.Reader) (batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return batch{}, fmt.Errorf("read findings: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return batch{}, fmt.Errorf("read findings: empty input")
	}

	var b batch
	if data[0] == '[' {
		err = json.Unmarshal(data, &b.Findings)
	} else {
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return batch{}, fmt.Errorf("decode findings: %w", err)
	}
	return b, nil
}

func readFindings(cmd *cobra.Command, args []string) (batch, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return batch{}, err
	}
	defer in.Close()
	return decodeFindings(in)
}

func readObservations(cmd *cobra.Command, args []string) ([]carrier.Observation, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var obs []carrier.Observation
	if err := json.NewDecoder(in).Decode(&obs); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	return obs, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

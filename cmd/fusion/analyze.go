package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion"
	"github.com/zero-day-ai/fusion/finding"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var (
		scanID     string
		format     string
		pretty     bool
		output     string
		types      []string
		severities []string
		filter     finding.Filter
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a batch of findings",
		Long: `Read a JSON batch of findings from a file or stdin and print the fusion
report: de-duplicated and correlated findings, batch summary, entity score,
Predictive Risk Index, persona fingerprint and behavioral profile.

With --format csv only the processed finding list is written. The filter
flags narrow the finding list of the output; scores are always computed
over the whole batch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := finding.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if err := buildFilter(&filter, types, severities); err != nil {
				return err
			}

			in, err := readFindings(cmd, args)
			if err != nil {
				return err
			}
			if scanID == "" {
				scanID = in.ScanID
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}

			var report *fusion.Report
			if scanID == "" {
				report, err = engine.Analyze(cmd.Context(), in.Findings)
			} else {
				report, err = engine.AnalyzeScan(cmd.Context(), scanID, in.Findings)
			}
			if err != nil {
				return err
			}
			report.Findings = filter.Apply(report.Findings)

			if output == "" {
				return writeReport(cmd.OutOrStdout(), report, exportFormat, pretty)
			}
			path := output
			if filepath.Ext(path) == "" {
				path += exportFormat.FileExtension()
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := writeReport(f, report, exportFormat, pretty); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			cmd.PrintErrf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&scanID, "scan-id", "", "scan id for the report (default: from input, else a new UUID)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|csv)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout (extension added from --format when missing)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "only output findings of these types")
	cmd.Flags().StringSliceVar(&severities, "severity", nil, "only output findings of these severities")
	cmd.Flags().StringSliceVar(&filter.Providers, "provider", nil, "only output findings from these providers")
	cmd.Flags().StringSliceVar(&filter.Tags, "tag", nil, "only output findings carrying one of these tags")
	cmd.Flags().Float64Var(&filter.MinConfidence, "min-confidence", 0, "only output findings with at least this confidence")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of findings to output (0 = all)")
	return cmd
}

func writeReport(w io.Writer, report *fusion.Report, format finding.ExportFormat, pretty bool) error {
	if format == finding.FormatCSV {
		return finding.Export(w, report.Findings, format)
	}
	if err := writeJSON(w, report, pretty); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func buildFilter(filter *finding.Filter, types, severities []string) error {
	for _, s := range types {
		t, err := finding.ParseType(s)
		if err != nil {
			return err
		}
		filter.Types = append(filter.Types, t)
	}
	for _, s := range severities {
		sev, err := finding.ParseSeverity(s)
		if err != nil {
			return err
		}
		filter.Severities = append(filter.Severities, sev)
	}
	return filter.Validate()
}

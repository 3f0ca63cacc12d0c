package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFingerprintCmd(c *cli) *cobra.Command {
	var (
		pretty  bool
		dnaOnly bool
	)

	cmd := &cobra.Command{
		Use:   "fingerprint [file|-]",
		Short: "Compute the persona fingerprint of one identity",
		Long: `Read the findings of one identity and print its persona DNA, the
PII-reduced features it was derived from, and its confidence.

The fingerprint depends on the configured salt (persona.salt,
FUSION_PERSONA_SALT).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFindings(cmd, args)
			if err != nil {
				return err
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}
			dna, err := engine.Fingerprint(cmd.Context(), in.Findings)
			if err != nil {
				return err
			}

			if dnaOnly {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dna.DNA)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dna, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&dnaOnly, "dna-only", false, "print only the DNA string")
	cmd.Flags().String("salt", "", "override the persona salt")
	return cmd
}

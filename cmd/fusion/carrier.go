package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCarrierCmd(c *cli) *cobra.Command {
	var (
		phone  string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "carrier [file|-]",
		Short: "Merge carrier observations for a phone number",
		Long: `Read a JSON array of carrier observations (one per provider) and print
the merged carrier record, its conflict resolutions and the findings
synthesized from it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := readObservations(cmd, args)
			if err != nil {
				return err
			}

			engine, err := c.engine()
			if err != nil {
				return err
			}
			out, err := engine.MergeCarrier(cmd.Context(), phone, obs)
			if err != nil {
				return err
			}

			if err := writeJSON(cmd.OutOrStdout(), out, pretty); err != nil {
				return fmt.Errorf("write carrier report: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "phone number the observations describe (required)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion/behavior"
)

// similarityOutput reports both directions because the score is not
// symmetric.
type similarityOutput struct {
	Similarity float64          `json:"similarity"`
	Reverse    float64          `json:"reverse"`
	A          behavior.Profile `json:"a"`
	B          behavior.Profile `json:"b"`
}

func newSimilarityCmd(c *cli) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "similarity <a.json> <b.json>",
		Short: "Compare the behavioral profiles of two identities",
		Long: `Build a behavioral profile from each findings file and print the
similarity of a to b, the reverse score, and both profiles.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}

			profiles := make([]behavior.Profile, 2)
			for i, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				in, err := decodeFindings(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				profiles[i] = engine.Profile(in.Findings)
			}

			out := similarityOutput{
				Similarity: engine.Similarity(profiles[0], profiles[1]),
				Reverse:    engine.Similarity(profiles[1], profiles[0]),
				A:          profiles[0],
				B:          profiles[1],
			}
			return writeJSON(cmd.OutOrStdout(), out, pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

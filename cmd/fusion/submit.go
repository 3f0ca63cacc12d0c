package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion/queue"
)

func newSubmitCmd(c *cli) *cobra.Command {
	var (
		jobID   string
		timeout time.Duration
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "submit [file|-]",
		Short: "Submit a findings batch to the worker queue and wait for the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readFindings(cmd, args)
			if err != nil {
				return err
			}

			client, err := queue.NewRedisClient(queue.RedisOptions{URL: c.cfg.Worker.GetRedisURL()})
			if err != nil {
				return err
			}
			defer client.Close()

			job := queue.NewJob(in.ScanID, in.Findings)
			if jobID != "" {
				job.JobID = jobID
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c.logger.Debug("submitting job", "job_id", job.JobID, "findings", len(job.Findings))
			res, err := queue.Submit(ctx, client, queue.NewKeys(c.cfg.Worker.GetQueuePrefix()), job)
			if err != nil {
				return err
			}
			if res.HasError() {
				return fmt.Errorf("job %s failed on worker %s: %s", res.JobID, res.WorkerID, res.Error)
			}
			c.logger.Debug("job finished", "job_id", res.JobID, "worker_id", res.WorkerID, "cached", res.Cached)

			var report json.RawMessage = res.Report
			return writeJSON(cmd.OutOrStdout(), report, pretty)
		},
	}

	addRedisFlags(cmd)
	cmd.Flags().StringVar(&jobID, "job-id", "", "job id (default: a new UUID; reuse one to get a cached report)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "how long to wait for the report")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion/worker"
)

func newWorkerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume scan jobs from Redis",
		Long: `Run a queue worker: pop scan jobs from Redis, analyze each and publish
the report on the job's result channel. Stops on SIGINT or SIGTERM after
in-flight jobs finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine()
			if err != nil {
				return err
			}

			w, err := worker.New(engine, worker.Options{
				Logger:       c.logger,
				WorkerConfig: c.cfg.Worker,
			})
			if err != nil {
				return err
			}
			defer w.Close()

			return w.Run(cmd.Context())
		},
	}

	addRedisFlags(cmd)
	cmd.Flags().Int("concurrency", 0, "number of worker goroutines (default 4)")
	cmd.Flags().Float64("rate", 0, "maximum jobs per second taken by this process (0 = unlimited)")
	cmd.Flags().String("shutdown-timeout", "", "time to wait for in-flight jobs (default 30s)")
	cmd.Flags().String("result-ttl", "", "how long reports are reused for a repeated job id (default 10m)")
	return cmd
}

// addRedisFlags registers the Redis connection flags shared by the
// commands that talk to the queue.
func addRedisFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis-url", "", "Redis URL (default redis://localhost:6379)")
	cmd.Flags().String("queue-prefix", "", "Redis key prefix (default fusion)")
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/fusion/health"
	"github.com/zero-day-ai/fusion/queue"
)

// healthReport is printed by the health command.
type healthReport struct {
	Overall health.Status            `json:"overall"`
	Checks  map[string]health.Status `json:"checks"`
}

func newHealthCmd(c *cli) *cobra.Command {
	var (
		withRedis bool
		backlog   int64
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the fingerprint hash, configuration and optionally Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := map[string]health.Status{
				"hash":   health.HashCheck(),
				"config": health.ConfigCheck(c.cfg),
			}
			if path := c.v.GetString("config"); path != "" {
				checks["config_file"] = health.FileCheck(path)
			}

			if withRedis {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				defer cancel()

				client, err := queue.NewRedisClient(queue.RedisOptions{URL: c.cfg.Worker.GetRedisURL()})
				if err != nil {
					checks["redis"] = health.Unhealthy("redis unreachable", map[string]any{"error": err.Error()})
				} else {
					defer client.Close()
					keys := queue.NewKeys(c.cfg.Worker.GetQueuePrefix())
					checks["redis"] = health.RedisCheck(ctx, client)
					checks["backlog"] = health.BacklogCheck(ctx, client, keys.Queue(), backlog)
				}
			}

			all := make([]health.Status, 0, len(checks))
			for _, s := range checks {
				all = append(all, s)
			}
			report := healthReport{Overall: health.Combine(all...), Checks: checks}

			if err := writeJSON(cmd.OutOrStdout(), report, true); err != nil {
				return err
			}
			if report.Overall.IsUnhealthy() {
				return fmt.Errorf("unhealthy: %s", report.Overall.Message)
			}
			return nil
		},
	}

	addRedisFlags(cmd)
	cmd.Flags().BoolVar(&withRedis, "redis", false, "also check the Redis connection and queue backlog")
	cmd.Flags().Int64Var(&backlog, "max-backlog", 1000, "queue length above which the backlog is degraded (0 = no limit)")
	return cmd
}

// Package health provides the checks a fusion worker runs before taking
// jobs and on demand from the CLI.
//
// Each check returns a Status; Combine folds several into one with
// unhealthy taking precedence over degraded, and degraded over healthy.
//
//	overall := health.Combine(
//	    health.HashCheck(),
//	    health.ConfigCheck(cfg),
//	    health.RedisCheck(ctx, client),
//	    health.BacklogCheck(ctx, client, keys.Queue(), 1000),
//	)
//	if overall.IsUnhealthy() {
//	    log.Printf("health check failed: %s %+v", overall.Message, overall.Details)
//	}
package health

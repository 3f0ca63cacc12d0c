package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zero-day-ai/fusion/config"
	"github.com/zero-day-ai/fusion/persona"
)

// defaultTimeout bounds checks that talk to Redis when the caller's
// context has no deadline.
const defaultTimeout = 5 * time.Second

// Pinger is implemented by queue clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Lengther reports the number of jobs waiting in a queue.
type Lengther interface {
	Len(ctx context.Context, queue string) (int64, error)
}

// HashCheck verifies that the persona fingerprint hash is linked in.
// Without it every scan fails.
func HashCheck() Status {
	if !persona.HashAvailable() {
		return Unhealthy("fingerprint hash unavailable", map[string]any{
			"error": persona.ErrHashUnavailable.Error(),
		})
	}
	return Healthy("fingerprint hash available")
}

// ConfigCheck validates an engine configuration.
//
// Example:
//
//	cfg, _ := config.Load("fusion.yaml")
//	if status := health.ConfigCheck(cfg); status.IsUnhealthy() {
//	    log.Fatal(status.Message)
//	}
func ConfigCheck(cfg *config.Config) Status {
	if cfg == nil {
		return Unhealthy("configuration missing", nil)
	}
	if err := cfg.Validate(); err != nil {
		return Unhealthy("configuration invalid", map[string]any{"error": err.Error()})
	}
	return Healthy("configuration valid")
}

// RedisCheck verifies the queue's Redis connection.
func RedisCheck(ctx context.Context, p Pinger) Status {
	if p == nil {
		return Unhealthy("redis client missing", nil)
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return Unhealthy("redis unreachable", map[string]any{"error": err.Error()})
	}
	return Healthy(fmt.Sprintf("redis reachable in %s", time.Since(start).Round(time.Millisecond)))
}

// BacklogCheck reports degraded when more than threshold jobs wait in
// queue. A threshold of zero or less disables the limit.
func BacklogCheck(ctx context.Context, l Lengther, queue string, threshold int64) Status {
	if l == nil {
		return Unhealthy("queue client missing", nil)
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	n, err := l.Len(ctx, queue)
	if err != nil {
		return Unhealthy("queue length unavailable", map[string]any{
			"queue": queue,
			"error": err.Error(),
		})
	}
	if threshold > 0 && n > threshold {
		return Degraded(fmt.Sprintf("queue %s backlog %d exceeds %d", queue, n, threshold), map[string]any{
			"queue":     queue,
			"backlog":   n,
			"threshold": threshold,
		})
	}
	return Healthy(fmt.Sprintf("queue %s backlog %d", queue, n))
}

// FileCheck verifies that a file or directory exists at the specified path.
func FileCheck(path string) Status {
	if path == "" {
		return Unhealthy("path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unhealthy(fmt.Sprintf("path '%s' does not exist", path), map[string]any{"path": path})
		}
		return Unhealthy(fmt.Sprintf("failed to stat path '%s'", path), map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}

	fileType := "file"
	if info.IsDir() {
		fileType = "directory"
	}
	return Healthy(fmt.Sprintf("%s '%s' exists", fileType, path))
}

// Combine aggregates multiple health checks into a single status.
// The result follows this priority:
//   - If any check is unhealthy, the result is unhealthy
//   - If any check is degraded (and none unhealthy), the result is degraded
//   - If all checks are healthy, the result is healthy
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return Healthy("no checks provided")
	}

	var unhealthyChecks []string
	var degradedChecks []string
	var healthyCount int

	for _, check := range checks {
		msg := check.Message
		if msg == "" {
			msg = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthyChecks = append(unhealthyChecks, msg)
		case StatusDegraded:
			degradedChecks = append(degradedChecks, msg)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthyChecks) > 0 {
		return Unhealthy(fmt.Sprintf("%d check(s) failed", len(unhealthyChecks)), map[string]any{
			"total":         len(checks),
			"unhealthy":     len(unhealthyChecks),
			"degraded":      len(degradedChecks),
			"healthy":       healthyCount,
			"failed_checks": unhealthyChecks,
		})
	}

	if len(degradedChecks) > 0 {
		return Degraded(fmt.Sprintf("%d check(s) degraded", len(degradedChecks)), map[string]any{
			"total":           len(checks),
			"degraded":        len(degradedChecks),
			"healthy":         healthyCount,
			"degraded_checks": degradedChecks,
		})
	}

	return Healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

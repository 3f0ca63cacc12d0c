package worker

import (
	"log/slog"
	"os"
	"time"

	"github.com/zero-day-ai/fusion/config"
	"github.com/zero-day-ai/fusion/queue"
)

// Options configures the worker behavior.
type Options struct {
	// RedisURL is the Redis connection string (e.g., "redis://localhost:6379").
	// Ignored when Client is set.
	RedisURL string

	// Client is an already connected queue client. When nil the worker
	// dials RedisURL and closes the connection on exit.
	Client queue.Client

	// Concurrency is the number of worker goroutines to start.
	// If 0, uses the fusion.yaml worker section or the default (4).
	Concurrency int

	// ShutdownTimeout is the time to wait for in-flight jobs on shutdown.
	// If 0, uses the fusion.yaml worker section or the default (30s).
	ShutdownTimeout time.Duration

	// QueuePrefix selects the Redis keys. Default: "fusion".
	QueuePrefix string

	// RatePerSecond caps how many jobs per second this process takes.
	// If 0, uses the fusion.yaml worker section; 0 there means unlimited.
	RatePerSecond float64

	// ResultTTL is how long a finished report is reused for a repeated job
	// id. If 0, uses the fusion.yaml worker section or the default (10m).
	ResultTTL time.Duration

	// HeartbeatInterval is the interval between health heartbeats.
	// Default: 10s. The heartbeat key expires after three intervals.
	HeartbeatInterval time.Duration

	// Logger is the structured logger for worker operations.
	// If nil, a JSON logger on stdout is created.
	Logger *slog.Logger

	// WorkerConfig is the worker section of fusion.yaml, if any.
	WorkerConfig *config.WorkerConfig
}

// applyWorkerConfig fills unset options. Explicit Options values take
// priority over fusion.yaml values, which take priority over defaults.
func applyWorkerConfig(opts Options, cfg *config.WorkerConfig) Options {
	if opts.RedisURL == "" {
		opts.RedisURL = cfg.GetRedisURL()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = cfg.GetConcurrency()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = cfg.GetShutdownTimeout()
	}
	if opts.QueuePrefix == "" {
		opts.QueuePrefix = cfg.GetQueuePrefix()
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = cfg.GetRatePerSecond()
	}
	if opts.ResultTTL == 0 {
		opts.ResultTTL = cfg.GetResultTTL()
	}
	if opts.HeartbeatInterval == 0 {
		opts.HeartbeatInterval = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return opts
}

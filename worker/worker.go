package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/zero-day-ai/fusion"
	"github.com/zero-day-ai/fusion/health"
	"github.com/zero-day-ai/fusion/queue"
)

// ErrUnhealthy is returned when the startup checks fail.
var ErrUnhealthy = errors.New("worker unhealthy")

// Worker consumes scan jobs from the queue, runs the engine on each and
// publishes the report.
type Worker struct {
	engine  *fusion.Engine
	client  queue.Client
	keys    queue.Keys
	opts    Options
	id      string
	limiter *rate.Limiter
	results *cache.Cache
	logger  *slog.Logger
	owned   bool
}

// New creates a Worker for engine. It connects to Redis unless
// opts.Client is set.
func New(engine *fusion.Engine, opts Options) (*Worker, error) {
	if engine == nil {
		return nil, fusion.NewValidationError("worker.New", errors.New("engine is required"))
	}
	opts = applyWorkerConfig(opts, opts.WorkerConfig)

	w := &Worker{
		engine:  engine,
		client:  opts.Client,
		keys:    queue.NewKeys(opts.QueuePrefix),
		opts:    opts,
		id:      generateWorkerID(),
		results: cache.New(opts.ResultTTL, 2*opts.ResultTTL),
	}
	w.logger = opts.Logger.With("worker_id", w.id)

	if opts.RatePerSecond > 0 {
		burst := int(math.Ceil(opts.RatePerSecond))
		w.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	if w.client == nil {
		client, err := queue.NewRedisClient(queue.RedisOptions{URL: opts.RedisURL})
		if err != nil {
			return nil, fusion.NewTransportError("worker.New", err)
		}
		w.client = client
		w.owned = true
	}
	return w, nil
}

// ID returns the unique identifier of this worker instance.
func (w *Worker) ID() string {
	return w.id
}

// Close releases the Redis connection if the worker opened it.
func (w *Worker) Close() error {
	if w.owned {
		return w.client.Close()
	}
	return nil
}

// Run starts the worker goroutines and blocks until ctx is cancelled. On
// cancellation it stops taking jobs and waits up to ShutdownTimeout for
// in-flight jobs to publish their results.
func (w *Worker) Run(ctx context.Context) error {
	logger := w.logger
	logger.Info("worker starting",
		"concurrency", w.opts.Concurrency,
		"queue", w.keys.Queue(),
		"rate_per_second", w.opts.RatePerSecond,
	)

	status := health.Combine(health.HashCheck(), health.RedisCheck(ctx, w.client))
	if status.IsUnhealthy() {
		logger.Error("startup checks failed", "status", status.Message, "details", status.Details)
		return fmt.Errorf("%w: %s", ErrUnhealthy, status.Message)
	}

	if err := w.client.IncrementWorkerCount(ctx, w.keys.Workers()); err != nil {
		logger.Error("failed to increment worker count", "error", err)
	}
	defer func() {
		// ctx is already cancelled here
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		if err := w.client.DecrementWorkerCount(cleanupCtx, w.keys.Workers()); err != nil {
			logger.Error("failed to decrement worker count", "error", err)
		}
	}()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go w.runHeartbeat(heartbeatCtx)

	var wg sync.WaitGroup
	for i := 0; i < w.opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerNum int) {
			defer wg.Done()
			w.loop(ctx, workerNum)
		}(i)
	}

	logger.Info("worker started", "workers", w.opts.Concurrency)

	<-ctx.Done()
	logger.Info("initiating graceful shutdown", "reason", context.Cause(ctx))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("worker shutdown complete")
	case <-time.After(w.opts.ShutdownTimeout):
		logger.Warn("worker shutdown timeout exceeded", "timeout", w.opts.ShutdownTimeout)
	}
	return nil
}

// runHeartbeat refreshes this worker's health key until ctx is cancelled.
func (w *Worker) runHeartbeat(ctx context.Context) {
	interval := w.opts.HeartbeatInterval
	key := w.keys.Health(w.id)

	beat := func() {
		if err := w.client.Heartbeat(ctx, key, 3*interval); err != nil && ctx.Err() == nil {
			// transient; the next tick retries
			w.logger.Debug("heartbeat failed", "error", err)
		}
	}
	beat()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat()
		}
	}
}

// loop is the main loop for a single worker goroutine.
func (w *Worker) loop(ctx context.Context, workerNum int) {
	logger := w.logger.With("worker_num", workerNum)
	logger.Debug("worker loop started")

	for {
		if ctx.Err() != nil {
			logger.Debug("worker loop stopped", "reason", "context_cancelled")
			return
		}

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				logger.Debug("worker loop stopped", "reason", "limiter_cancelled")
				return
			}
		}

		job, err := w.client.Pop(ctx, w.keys.Queue())
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("worker loop stopped", "reason", "context_error")
				return
			}
			logger.Error("failed to pop job", "error", err)
			// avoid spinning on a broken connection
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}

		logger.Info("received job",
			"job_id", job.JobID,
			"scan_id", job.EffectiveScanID(),
			"findings", len(job.Findings),
			"queue_wait_ms", job.Age().Milliseconds(),
		)

		// In-flight jobs finish and publish even when shutdown starts.
		jobCtx := context.WithoutCancel(ctx)
		result := w.Process(jobCtx, *job)

		if err := w.client.Publish(jobCtx, w.keys.Results(job.JobID), result); err != nil {
			logger.Error("failed to publish result", "job_id", job.JobID, "error", err)
		}
	}
}

// Process runs the engine on one job and always returns a result. A job id
// seen within ResultTTL is answered from the cache.
func (w *Worker) Process(ctx context.Context, job queue.Job) queue.Result {
	startedAt := time.Now().UnixMilli()
	result := queue.Result{
		JobID:     job.JobID,
		ScanID:    job.EffectiveScanID(),
		WorkerID:  w.id,
		StartedAt: startedAt,
	}

	if err := job.IsValid(); err != nil {
		result.Error = fmt.Sprintf("invalid job: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		w.logger.Error("invalid job", "job_id", job.JobID, "error", err)
		return result
	}

	if cached, ok := w.results.Get(job.JobID); ok {
		result.Report = cached.(json.RawMessage)
		result.Cached = true
		result.CompletedAt = time.Now().UnixMilli()
		w.logger.Info("job served from cache", "job_id", job.JobID)
		return result
	}

	report, err := w.engine.AnalyzeScan(ctx, result.ScanID, job.Findings)
	if err != nil {
		result.Error = err.Error()
		result.CompletedAt = time.Now().UnixMilli()
		w.logger.Error("scan analysis failed", "job_id", job.JobID, "error", err)
		return result
	}

	data, err := json.Marshal(report)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal report: %v", err)
		result.CompletedAt = time.Now().UnixMilli()
		w.logger.Error("failed to marshal report", "job_id", job.JobID, "error", err)
		return result
	}

	w.results.Set(job.JobID, json.RawMessage(data), cache.DefaultExpiration)
	result.Report = data
	result.CompletedAt = time.Now().UnixMilli()

	w.logger.Info("job completed",
		"job_id", job.JobID,
		"risk_level", report.RiskIndex.Level,
		"duration_ms", result.CompletedAt-result.StartedAt,
	)
	return result
}

// Run creates a worker for engine and runs it until SIGTERM or SIGINT.
func Run(engine *fusion.Engine, opts Options) error {
	w, err := New(engine, opts)
	if err != nil {
		return err
	}
	defer fusion.CloseWithLog(w, w.logger, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return w.Run(ctx)
}

// generateWorkerID creates a unique identifier for this worker instance.
// Uses hostname + PID + UUID for uniqueness.
func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	pid := os.Getpid()
	id := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%d-%s", hostname, pid, id)
}

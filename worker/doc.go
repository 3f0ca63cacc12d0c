// Package worker runs the fusion engine as a Redis queue consumer.
//
// A worker pops scan jobs, analyzes each with a shared fusion.Engine and
// publishes the JSON report on the job's result channel. Several goroutines
// share one engine; the engine is safe for concurrent use.
//
// # Usage
//
//	engine, err := fusion.New(fusion.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = worker.Run(engine, worker.Options{
//	    RedisURL:     "redis://localhost:6379",
//	    Concurrency:  4,
//	    WorkerConfig: cfg.Worker,
//	})
//
// Run blocks until SIGTERM or SIGINT. Callers managing their own lifecycle
// use New and Worker.Run with a context instead.
//
// # Intake and caching
//
// RatePerSecond bounds how fast one process takes jobs. Finished reports
// are kept for ResultTTL keyed by job id, so a submitter that resubmits
// after missing the published result gets the same report back without a
// second analysis.
//
// # Shutdown
//
// On shutdown the worker stops popping, lets in-flight jobs finish and
// publish, and waits at most ShutdownTimeout for them.
package worker

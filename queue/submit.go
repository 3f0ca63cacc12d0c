package queue

import (
	"context"
	"fmt"
)

// Submit pushes job onto the scan queue and waits for its result. The
// result channel is subscribed before the push so a fast worker cannot
// publish before anyone listens.
func Submit(ctx context.Context, client Client, keys Keys, job Job) (Result, error) {
	if err := job.IsValid(); err != nil {
		return Result{}, fmt.Errorf("invalid job: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := client.Subscribe(subCtx, keys.Results(job.JobID))
	if err != nil {
		return Result{}, err
	}

	if err := client.Push(ctx, keys.Queue(), job); err != nil {
		return Result{}, err
	}

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("waiting for job %s: %w", job.JobID, ctx.Err())
	case res, ok := <-results:
		if !ok {
			if ctx.Err() != nil {
				return Result{}, fmt.Errorf("waiting for job %s: %w", job.JobID, ctx.Err())
			}
			return Result{}, fmt.Errorf("result channel for job %s closed", job.JobID)
		}
		return res, nil
	}
}

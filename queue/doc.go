// Package queue provides the Redis job queue that feeds scan batches to
// fusion workers and carries reports back.
//
// Submitters push a Job onto the scan queue and listen on the job's result
// channel. Workers pop jobs, run the fusion engine and publish a Result
// holding the JSON report.
//
// # Redis Key Schema
//
// All keys share a configurable prefix (default "fusion"):
//   - <prefix>:scans:queue - List of pending jobs (LPUSH/BRPOP)
//   - <prefix>:results:<jobID> - Pub/Sub channel for the job's result
//   - <prefix>:worker:<workerID>:health - String with a TTL, refreshed by heartbeat
//   - <prefix>:workers - Integer counter of running workers
//
// # Usage
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	res, err := queue.Submit(ctx, client, queue.NewKeys(""), queue.NewJob("scan-42", findings))
//	if err != nil {
//		return err
//	}
//	var report fusion.Report
//	if err := res.DecodeReport(&report); err != nil {
//		return err
//	}
//
// # Delivery
//
// Results use Redis pub/sub and are not stored. A submitter that is not
// subscribed when the result is published misses it; resubmitting the same
// JobID is answered from the worker's result cache while the entry lives.
package queue

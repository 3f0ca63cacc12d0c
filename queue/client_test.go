package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/fusion/finding"
)

// setupTestClient creates a miniredis instance and returns a connected RedisClient.
func setupTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

func testJob(jobID string) Job {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := finding.NewFinding("hibp", "breach", "jane@example.com", finding.TypeBreach, finding.SeverityCritical, "Breach exposure", at)
	f.Evidence = []finding.Evidence{finding.NewEvidence("email", "jane@example.com")}
	return Job{
		JobID:       jobID,
		ScanID:      "scan-" + jobID,
		Findings:    []finding.Finding{f},
		TraceID:     "trace-123",
		SubmittedAt: time.Now().UnixMilli(),
	}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL: "invalid://url",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestPushPop(t *testing.T) {
	t.Run("round trip keeps findings", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()
		job := testJob("job-123")

		require.NoError(t, client.Push(ctx, "q", job))

		n, err := client.Len(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		popped, err := client.Pop(ctx, "q")
		require.NoError(t, err)
		require.NotNil(t, popped)

		assert.Equal(t, job.JobID, popped.JobID)
		assert.Equal(t, job.ScanID, popped.ScanID)
		assert.Equal(t, job.TraceID, popped.TraceID)
		assert.Equal(t, job.SubmittedAt, popped.SubmittedAt)
		require.Len(t, popped.Findings, 1)
		assert.Equal(t, job.Findings[0].ID, popped.Findings[0].ID)
		assert.Equal(t, job.Findings[0].ObservedAt, popped.Findings[0].ObservedAt)
		assert.Equal(t, []string{"jane@example.com"}, popped.Findings[0].EvidenceValues("email"))
	})

	t.Run("FIFO order", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			require.NoError(t, client.Push(ctx, "q", testJob(fmt.Sprintf("job-%d", i))))
		}
		for i := 0; i < 3; i++ {
			popped, err := client.Pop(ctx, "q")
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("job-%d", i), popped.JobID)
		}
	})

	t.Run("pop honors cancellation", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.Pop(ctx, "empty")
		assert.Error(t, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		client, mr := setupTestClient(t)
		_, err := mr.Lpush("q", "{not json")
		require.NoError(t, err)

		_, err = client.Pop(context.Background(), "q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal job")
	})
}

func TestPublishSubscribe(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := client.Subscribe(ctx, "fusion:results:job-1")
	require.NoError(t, err)

	want := Result{
		JobID:       "job-1",
		ScanID:      "scan-1",
		Report:      json.RawMessage(`{"scanId":"scan-1"}`),
		WorkerID:    "w1",
		StartedAt:   1,
		CompletedAt: 2,
	}
	require.NoError(t, client.Publish(ctx, "fusion:results:job-1", want))

	select {
	case got := <-results:
		assert.Equal(t, want.JobID, got.JobID)
		assert.JSONEq(t, string(want.Report), string(got.Report))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-results
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHeartbeat(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()
	key := NewKeys("").Health("w1")

	alive, err := client.Alive(ctx, key)
	require.NoError(t, err)
	assert.False(t, alive)

	require.NoError(t, client.Heartbeat(ctx, key, 30*time.Second))
	alive, err = client.Alive(ctx, key)
	require.NoError(t, err)
	assert.True(t, alive)

	mr.FastForward(31 * time.Second)
	alive, err = client.Alive(ctx, key)
	require.NoError(t, err)
	assert.False(t, alive)
}

func TestWorkerCount(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()
	key := NewKeys("").Workers()

	count, err := client.GetWorkerCount(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, client.IncrementWorkerCount(ctx, key))
	require.NoError(t, client.IncrementWorkerCount(ctx, key))
	require.NoError(t, client.DecrementWorkerCount(ctx, key))

	count, err = client.GetWorkerCount(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmit(t *testing.T) {
	client, _ := setupTestClient(t)
	keys := NewKeys("test")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		job, err := client.Pop(ctx, keys.Queue())
		if err != nil || job == nil {
			return
		}
		_ = client.Publish(ctx, keys.Results(job.JobID), Result{
			JobID:       job.JobID,
			ScanID:      job.EffectiveScanID(),
			Report:      json.RawMessage(`{"scanId":"` + job.EffectiveScanID() + `"}`),
			WorkerID:    "w1",
			StartedAt:   1,
			CompletedAt: 2,
		})
	}()

	res, err := Submit(ctx, client, keys, testJob("job-7"))
	require.NoError(t, err)
	assert.Equal(t, "job-7", res.JobID)
	assert.Equal(t, "scan-job-7", res.ScanID)
}

func TestSubmit_InvalidJob(t *testing.T) {
	client, _ := setupTestClient(t)

	_, err := Submit(context.Background(), client, NewKeys(""), Job{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job")
}

func TestSubmit_Timeout(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Submit(ctx, client, NewKeys(""), testJob("job-8"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClose(t *testing.T) {
	client, _ := setupTestClient(t)
	require.NoError(t, client.Close())

	err := client.Push(context.Background(), "q", testJob("job-9"))
	assert.Error(t, err)
}

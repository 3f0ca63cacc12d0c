package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/fusion/finding"
)

// Job is one scan batch submitted for fusion.
type Job struct {
	// JobID is a UUID identifying this submission. Resubmitting the same
	// JobID lets a worker answer from its result cache.
	JobID string `json:"job_id"`

	// ScanID becomes the report's scan id. Defaults to JobID when empty.
	ScanID string `json:"scan_id,omitempty"`

	// Findings is the raw provider output of the scan.
	Findings []finding.Finding `json:"findings"`

	// TraceID is the distributed tracing trace ID for observability
	TraceID string `json:"trace_id,omitempty"`

	// SpanID is the distributed tracing span ID for observability
	SpanID string `json:"span_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the job was submitted
	SubmittedAt int64 `json:"submitted_at"`
}

// NewJob creates a job for findings with a fresh JobID.
func NewJob(scanID string, findings []finding.Finding) Job {
	return Job{
		JobID:       uuid.NewString(),
		ScanID:      scanID,
		Findings:    findings,
		SubmittedAt: time.Now().UnixMilli(),
	}
}

// Result is the outcome of a Job. It is published to the job's result
// channel.
type Result struct {
	JobID  string `json:"job_id"`
	ScanID string `json:"scan_id"`

	// Report is the JSON-encoded fusion report. Empty if Error is set.
	Report json.RawMessage `json:"report,omitempty"`

	// Error is the error message if processing failed.
	Error string `json:"error,omitempty"`

	// Cached is set when the report was served from the worker's result
	// cache instead of being recomputed.
	Cached bool `json:"cached,omitempty"`

	// WorkerID is the unique identifier of the worker that processed the job
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when processing started
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when processing completed
	CompletedAt int64 `json:"completed_at"`
}

// IsValid checks if the Job has all required fields populated correctly.
// An empty finding list is a valid scan.
func (j *Job) IsValid() error {
	if j.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if j.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", j.SubmittedAt)
	}
	return nil
}

// EffectiveScanID returns ScanID, falling back to JobID.
func (j *Job) EffectiveScanID() string {
	if j.ScanID != "" {
		return j.ScanID
	}
	return j.JobID
}

// Age returns the duration since this job was submitted.
func (j *Job) Age() time.Duration {
	if j.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-j.SubmittedAt) * time.Millisecond
}

// HasError returns true if the result represents a failed job.
func (r *Result) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent on the job.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if !r.HasError() && len(r.Report) == 0 {
		return fmt.Errorf("report is required when error is empty")
	}
	return nil
}

// DecodeReport unmarshals the report payload into v.
func (r *Result) DecodeReport(v any) error {
	if r.HasError() {
		return fmt.Errorf("job %s failed: %s", r.JobID, r.Error)
	}
	if err := json.Unmarshal(r.Report, v); err != nil {
		return fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return nil
}

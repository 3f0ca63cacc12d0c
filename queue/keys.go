package queue

import "strings"

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "fusion"

// Keys builds the Redis key names for one deployment. Workers and
// submitters sharing a prefix share a queue.
type Keys struct {
	Prefix string
}

// NewKeys returns Keys for prefix, or DefaultPrefix when prefix is empty.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{Prefix: prefix}
}

// Queue is the list holding pending jobs.
func (k Keys) Queue() string {
	return formatKeyName(k.prefix(), "scans", "queue")
}

// Results is the pub/sub channel carrying the result of jobID.
func (k Keys) Results(jobID string) string {
	return formatKeyName(k.prefix(), "results", jobID)
}

// Health is the heartbeat key of one worker.
func (k Keys) Health(workerID string) string {
	return formatKeyName(k.prefix(), "worker", workerID, "health")
}

// Workers is the counter of running workers.
func (k Keys) Workers() string {
	return formatKeyName(k.prefix(), "workers")
}

func (k Keys) prefix() string {
	if k.Prefix == "" {
		return DefaultPrefix
	}
	return k.Prefix
}

// formatKeyName ensures consistent key naming with the prefix:<part>:* pattern.
func formatKeyName(parts ...string) string {
	return strings.Join(parts, ":")
}

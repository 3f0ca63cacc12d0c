package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zero-day-ai/fusion/config"
)

type fakeQueue struct {
	pingErr error
	length  int64
	lenErr  error
}

func (f fakeQueue) Ping(ctx context.Context) error { return f.pingErr }

func (f fakeQueue) Len(ctx context.Context, queue string) (int64, error) {
	return f.length, f.lenErr
}

func TestHashCheck(t *testing.T) {
	assert.True(t, HashCheck().IsHealthy())
}

func TestConfigCheck(t *testing.T) {
	assert.True(t, ConfigCheck(config.Default()).IsHealthy())
	assert.True(t, ConfigCheck(nil).IsUnhealthy())

	bad := config.Default()
	bad.Persona.Salt = ""
	status := ConfigCheck(bad)
	assert.True(t, status.IsUnhealthy())
	assert.Contains(t, status.Details["error"], "salt")
}

func TestRedisCheck(t *testing.T) {
	assert.True(t, RedisCheck(context.Background(), fakeQueue{}).IsHealthy())

	status := RedisCheck(context.Background(), fakeQueue{pingErr: errors.New("connection refused")})
	assert.True(t, status.IsUnhealthy())
	assert.Equal(t, "connection refused", status.Details["error"])

	assert.True(t, RedisCheck(context.Background(), nil).IsUnhealthy())
}

func TestBacklogCheck(t *testing.T) {
	tests := []struct {
		name      string
		q         fakeQueue
		threshold int64
		want      string
	}{
		{"under threshold", fakeQueue{length: 5}, 10, StatusHealthy},
		{"over threshold", fakeQueue{length: 11}, 10, StatusDegraded},
		{"no limit", fakeQueue{length: 1_000_000}, 0, StatusHealthy},
		{"length error", fakeQueue{lenErr: errors.New("timeout")}, 10, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := BacklogCheck(context.Background(), tt.q, "fusion:scans:queue", tt.threshold)
			assert.Equal(t, tt.want, status.Status)
		})
	}
}

func TestFileCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fusion.yaml")
	assert.NoError(t, os.WriteFile(file, []byte("persona: {}\n"), 0o600))

	assert.True(t, FileCheck(file).IsHealthy())
	assert.Contains(t, FileCheck(dir).Message, "directory")
	assert.True(t, FileCheck(filepath.Join(dir, "missing.yaml")).IsUnhealthy())
	assert.True(t, FileCheck("").IsUnhealthy())
}

func TestCombine(t *testing.T) {
	assert.True(t, Combine().IsHealthy())
	assert.True(t, Combine(Healthy("a"), Healthy("b")).IsHealthy())

	degraded := Combine(Healthy("a"), Degraded("slow", nil))
	assert.True(t, degraded.IsDegraded())
	assert.Equal(t, []string{"slow"}, degraded.Details["degraded_checks"])

	failed := Combine(Degraded("slow", nil), Unhealthy("", nil))
	assert.True(t, failed.IsUnhealthy())
	assert.Equal(t, []string{"unnamed check"}, failed.Details["failed_checks"])
	assert.Equal(t, 1, failed.Details["degraded"])
}

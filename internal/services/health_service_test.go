package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_ReadinessCheck(t *testing.T) {
	service, paths := newTestService(t)
	health := NewHealthService("1.2.3", "", paths, service, nil)

	status := health.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	writeDataset(t, paths, testRecords())

	status = health.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	require.Contains(t, status.Services, "dataset")
	assert.Contains(t, status.Services["dataset"].(ServiceHealth).Message, "4 records")
}

func TestHealthService_HealthAndLiveness(t *testing.T) {
	_, paths := newTestService(t)
	health := NewHealthService("1.2.3", "2024-03-01", paths, nil, nil)

	status := health.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)

	live := health.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := health.Version()
	assert.Equal(t, "1.2.3", version["version"])
	assert.Equal(t, "2024-03-01", version["build_time"])
}

package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestEmptyCheckerIsHealthy(t *testing.T) {
	c := NewChecker()
	assert.Equal(t, StatusHealthy, c.GetOverallStatus())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, c.ServingStatus())
}

func TestOverallStatus(t *testing.T) {
	ctx := context.Background()
	c := NewChecker()

	c.RunCheck(ctx, "database", func(context.Context) error { return nil })
	c.RunCheck(ctx, "provisioning", func(context.Context) error { return nil })
	assert.Equal(t, StatusHealthy, c.GetOverallStatus())

	c.Set("provisioning", StatusDegraded, "settings: table missing")
	assert.Equal(t, StatusDegraded, c.GetOverallStatus())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, c.ServingStatus())

	c.RunCheck(ctx, "provisioning", func(context.Context) error { return errors.New("boom") })
	assert.Equal(t, StatusDegraded, c.GetOverallStatus())

	c.RunCheck(ctx, "database", func(context.Context) error { return errors.New("down") })
	assert.Equal(t, StatusUnhealthy, c.GetOverallStatus())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, c.ServingStatus())
}

func TestGetAllChecksSortedCopies(t *testing.T) {
	c := NewChecker()
	c.Set("zeta", StatusHealthy, "OK")
	c.Set("alpha", StatusUnhealthy, "bad")

	checks := c.GetAllChecks()
	require.Len(t, checks, 2)
	assert.Equal(t, "alpha", checks[0].Name)
	assert.Equal(t, "bad", checks[0].Message)
	assert.Equal(t, "zeta", checks[1].Name)

	checks[0].Message = "mutated"
	assert.Equal(t, "bad", c.GetAllChecks()[0].Message)
}

func TestLastHealthyTimeOnlyAdvancesWhenHealthy(t *testing.T) {
	c := NewChecker()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("database", StatusHealthy, "OK")
	assert.Equal(t, clock, c.GetLastHealthyTime())

	clock = clock.Add(time.Minute)
	c.Set("database", StatusUnhealthy, "down")
	assert.Equal(t, clock.Add(-time.Minute), c.GetLastHealthyTime())
}

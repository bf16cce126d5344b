package health

import (
	"context"
	"sort"
	"sync"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Status is the state of a single check or of the service as a whole
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckFunc is a function that performs a health check
type CheckFunc func(ctx context.Context) error

// Check represents a single health check result
type Check struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Message     string    `json:"message"`
	LastChecked time.Time `json:"last_checked"`
}

// Checker manages health checks for a service
type Checker struct {
	mu          sync.RWMutex
	checks      map[string]*Check
	lastHealthy time.Time
	now         func() time.Time
}

// NewChecker creates a new health checker
func NewChecker() *Checker {
	return &Checker{
		checks:      make(map[string]*Check),
		lastHealthy: time.Now(),
		now:         time.Now,
	}
}

// RunCheck executes a health check and records the result
func (c *Checker) RunCheck(ctx context.Context, name string, checkFunc CheckFunc) {
	if err := checkFunc(ctx); err != nil {
		c.Set(name, StatusUnhealthy, err.Error())
		return
	}
	c.Set(name, StatusHealthy, "OK")
}

// Set records a check result directly
func (c *Checker) Set(name string, status Status, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = &Check{
		Name:        name,
		Status:      status,
		Message:     message,
		LastChecked: c.now(),
	}

	if c.isHealthy() {
		c.lastHealthy = c.now()
	}
}

// GetOverallStatus returns the overall health status. Any degraded check, or
// some but not all checks unhealthy, yields degraded.
func (c *Checker) GetOverallStatus() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.checks) == 0 {
		return StatusHealthy
	}

	unhealthy, degraded := 0, 0
	for _, check := range c.checks {
		switch check.Status {
		case StatusUnhealthy:
			unhealthy++
		case StatusDegraded:
			degraded++
		}
	}

	switch {
	case unhealthy == len(c.checks):
		return StatusUnhealthy
	case unhealthy > 0 || degraded > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// ServingStatus maps the overall status to the gRPC health protocol. A
// degraded service still serves.
func (c *Checker) ServingStatus() healthpb.HealthCheckResponse_ServingStatus {
	if c.GetOverallStatus() == StatusUnhealthy {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// GetAllChecks returns all health check results sorted by name
func (c *Checker) GetAllChecks() []Check {
	c.mu.RLock()
	defer c.mu.RUnlock()

	checks := make([]Check, 0, len(c.checks))
	for _, check := range c.checks {
		checks = append(checks, *check)
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
	return checks
}

// GetLastHealthyTime returns the last time all checks were healthy
func (c *Checker) GetLastHealthyTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastHealthy
}

func (c *Checker) isHealthy() bool {
	for _, check := range c.checks {
		if check.Status != StatusHealthy {
			return false
		}
	}
	return true
}

// Package health provides health check functionality for an oracle node.
//
// The checker reads the latest committed state through a status source and
// reports:
// - State availability and read latency
// - Circuit breaker status
//
// The REST gateway serves three endpoints from it:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Component status with metrics
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"

	oracletypes "github.com/paw-chain/burnoracle/x/oracle/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// Component names
const (
	ComponentState          = "state"
	ComponentCircuitBreaker = "circuit_breaker"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// StatusSource reads the oracle status from the latest committed state
type StatusSource func(ctx context.Context) (oracletypes.ContractStatus, error)

// Checker performs health checks against the oracle state
type Checker struct {
	logger log.Logger
	source StatusSource

	// Thresholds for health determination
	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// MaxResponseTime is the state read latency above which the state is degraded
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxResponseTime: 2 * time.Second,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, source StatusSource) (*Checker, error) {
	if source == nil {
		return nil, fmt.Errorf("status source is required")
	}
	if cfg.MaxResponseTime <= 0 {
		return nil, fmt.Errorf("max response time must be positive")
	}

	return &Checker{
		logger:          logger,
		source:          source,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check runs every component check. Basic results are cached for the
// configured duration. Detailed checks always read fresh state and include
// per-component metrics.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth
	}

	state, breaker := c.checkState(ctx)
	health := &HealthCheck{
		Timestamp: time.Now(),
		Components: map[string]ComponentHealth{
			ComponentState:          state,
			ComponentCircuitBreaker: breaker,
		},
	}
	health.Status = calculateOverallStatus(health.Components)

	if !detailed {
		for name, component := range health.Components {
			component.Metrics = nil
			health.Components[name] = component
		}

		c.mu.Lock()
		c.cachedHealth = health
		c.lastCheck = health.Timestamp
		c.mu.Unlock()
	}

	if health.Status != StatusHealthy {
		c.logger.Warn("health check not healthy", "status", health.Status)
	}
	return health
}

// checkState reads the status once and derives both component results from it
func (c *Checker) checkState(ctx context.Context) (state ComponentHealth, breaker ComponentHealth) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.maxResponseTime)
	defer cancel()

	start := time.Now()
	status, err := c.source(timeoutCtx)
	elapsed := time.Since(start)
	now := time.Now()

	if err != nil {
		return ComponentHealth{
				Status:    StatusUnhealthy,
				Message:   fmt.Sprintf("state unavailable: %v", err),
				Timestamp: now,
			}, ComponentHealth{
				Status:    StatusUnknown,
				Message:   "state unavailable",
				Timestamp: now,
			}
	}

	stateStatus := StatusHealthy
	message := "state readable"
	if elapsed > c.maxResponseTime {
		stateStatus = StatusDegraded
		message = fmt.Sprintf("slow state read: %v", elapsed)
	}
	state = ComponentHealth{
		Status:    stateStatus,
		Message:   message,
		Timestamp: now,
		Metrics: map[string]interface{}{
			"block_height":     status.BlockHeight,
			"current_window":   status.CurrentWindow,
			"feed_count":       status.FeedCount,
			"response_time_ms": elapsed.Milliseconds(),
		},
	}

	breaker = ComponentHealth{
		Status:    StatusHealthy,
		Message:   "accepting submissions",
		Timestamp: now,
		Metrics: map[string]interface{}{
			"paused":          status.Paused,
			"emergency_admin": status.EmergencyAdmin,
		},
	}
	if status.Paused {
		breaker.Status = StatusDegraded
		breaker.Message = "paused by emergency admin"
	}

	return state, breaker
}

// calculateOverallStatus determines the overall health status based on component statuses
func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded, StatusUnknown:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// shouldUseCached determines if cached health check results should be used
func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}
	return time.Since(c.lastCheck) < c.cacheDuration
}

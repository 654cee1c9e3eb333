// Package health runs dependency checks for the /status endpoint and for
// the periodic monitor.
package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Result is the outcome of one check.
type Result struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// Report is the outcome of a run. Healthy is false when a required check failed.
type Report struct {
	Healthy bool              `json:"-"`
	Checks  map[string]Result `json:"checks"`
}

type check struct {
	name     string
	fn       CheckFunc
	required bool
}

// Checker runs the registered checks concurrently, each bounded by timeout.
type Checker struct {
	mu      sync.RWMutex
	checks  []check
	timeout time.Duration
	logger  *zerolog.Logger
	nrApp   *newrelic.Application
}

// NewChecker creates a Checker. nrApp may be nil.
func NewChecker(timeout time.Duration, logger *zerolog.Logger, nrApp *newrelic.Application) *Checker {
	return &Checker{
		timeout: timeout,
		logger:  logger,
		nrApp:   nrApp,
	}
}

// Register adds a check. A failing optional check is reported but leaves
// the report healthy.
func (c *Checker) Register(name string, fn CheckFunc, required bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check{name: name, fn: fn, required: required})
}

// Names returns the registered check names in registration order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for _, ch := range c.checks {
		names = append(names, ch.name)
	}
	return names
}

// Run executes the checks named in only, or every check when only is empty.
func (c *Checker) Run(ctx context.Context, only ...string) Report {
	c.mu.RLock()
	selected := make([]check, 0, len(c.checks))
	for _, ch := range c.checks {
		if len(only) == 0 || slices.Contains(only, ch.name) {
			selected = append(selected, ch)
		}
	}
	c.mu.RUnlock()

	report := Report{Healthy: true, Checks: make(map[string]Result, len(selected))}
	results := make([]Result, len(selected))

	var wg sync.WaitGroup
	for i, ch := range selected {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.runOne(ctx, ch)
		}()
	}
	wg.Wait()

	for i, ch := range selected {
		report.Checks[ch.name] = results[i]
		if ch.required && results[i].Status != StatusHealthy {
			report.Healthy = false
		}
	}

	return report
}

func (c *Checker) runOne(ctx context.Context, ch check) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := ch.fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("check", ch.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		if c.nrApp != nil {
			c.nrApp.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       ch.name,
				"operation":        "health_check",
				"error_type":       ch.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}

		return Result{Status: StatusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}

	c.logger.Debug().
		Str("check", ch.name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return Result{Status: StatusHealthy, ResponseTime: elapsed.String()}
}

package health

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Monitor runs a Checker on a cron schedule and logs state changes.
type Monitor struct {
	cron    *cron.Cron
	checker *Checker
	checks  []string
	logger  *zerolog.Logger

	healthy bool
}

// NewMonitor schedules checker every interval, limited to the named checks.
func NewMonitor(checker *Checker, interval time.Duration, checks []string, logger *zerolog.Logger) (*Monitor, error) {
	m := &Monitor{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		checker: checker,
		checks:  checks,
		logger:  logger,
		healthy: true,
	}

	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), m.tick); err != nil {
		return nil, fmt.Errorf("failed to schedule health monitor: %w", err)
	}

	return m, nil
}

func (m *Monitor) tick() {
	report := m.checker.Run(context.Background(), m.checks...)

	switch {
	case !report.Healthy && m.healthy:
		m.logger.Error().Interface("checks", report.Checks).Msg("service became unhealthy")
	case report.Healthy && !m.healthy:
		m.logger.Info().Interface("checks", report.Checks).Msg("service recovered")
	}
	m.healthy = report.Healthy
}

// Start runs the schedule in its own goroutine.
func (m *Monitor) Start() {
	m.logger.Info().Strs("checks", m.checks).Msg("starting health monitor")
	m.cron.Start()
}

// Stop stops the schedule and returns a context done when a running check finished.
func (m *Monitor) Stop() context.Context {
	return m.cron.Stop()
}

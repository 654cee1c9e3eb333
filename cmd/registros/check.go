package main

import (
	"context"
	"errors"

	"github.com/dhchicaiza/registros/internal/config"
	"github.com/dhchicaiza/registros/internal/database"
	"github.com/dhchicaiza/registros/internal/lib/health"
	"github.com/dhchicaiza/registros/internal/lib/utils"
	"github.com/dhchicaiza/registros/internal/logger"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the database is reachable with the current configuration",
	Long: `check loads the configuration, connects to PostgreSQL once and prints
the result as JSON, also when the database does not answer. It exits
non-zero in that case.`,
	RunE: runCheck,
}

type checkReport struct {
	Status string                   `json:"status"`
	Checks map[string]health.Result `json:"checks"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability)

	db, err := database.New(cfg, &log, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	checker := health.NewChecker(cfg.Observability.HealthChecks.Timeout, &log, nil)
	checker.Register("database", db.Ping, true)

	report := checker.Run(context.Background())

	out := checkReport{Status: health.StatusHealthy, Checks: report.Checks}
	if !report.Healthy {
		out.Status = health.StatusUnhealthy
	}
	if err := utils.WriteJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if !report.Healthy {
		return errors.New("database check failed")
	}
	return nil
}

package handler

import (
	"net/http"
	"time"

	"github.com/dhchicaiza/registros/internal/lib/health"
	"github.com/dhchicaiza/registros/internal/middleware"
	"github.com/dhchicaiza/registros/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its dependencies respond,
// for Kubernetes probes and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthResponse struct {
	Status      string                   `json:"status"`
	Timestamp   time.Time                `json:"timestamp"`
	Environment string                   `json:"environment"`
	Checks      map[string]health.Result `json:"checks"`
}

// CheckHealth returns 200 when every required check passes and 503 otherwise.
// Redis is reported but never makes the service unhealthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	report := h.server.Health.Run(c.Request().Context())

	response := healthResponse{
		Status:      health.StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      report.Checks,
	}

	if !report.Healthy {
		response.Status = health.StatusUnhealthy
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

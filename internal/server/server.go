// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database connection provider
//   - optional redis client and background job worker (asynq)
//   - dependency health checks and their periodic monitor
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dhchicaiza/registros/internal/config"
	"github.com/dhchicaiza/registros/internal/database"
	"github.com/dhchicaiza/registros/internal/lib/email"
	"github.com/dhchicaiza/registros/internal/lib/health"
	"github.com/dhchicaiza/registros/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/dhchicaiza/registros/internal/logger"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, nil inside when disabled.
	LoggerService *loggerPkg.LoggerService

	// DB hands out one database connection per request.
	DB database.Provider

	// Redis is nil unless redis.address is configured.
	Redis *redis.Client

	// Job is nil unless redis.address is configured.
	Job *job.JobService

	// Health runs the dependency checks behind /status.
	Health *health.Checker

	monitor    *health.Monitor
	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Neither the database nor redis has to be reachable: failures are logged,
// requests fail until the database answers and notifications wait for redis. The HTTP server is configured
// later with SetupHTTPServer.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	s.pingDatabase()

	if cfg.Redis.Enabled() {
		if err := s.setupRedis(); err != nil {
			s.close()
			return nil, err
		}
	}

	s.setupHealth()

	if hc := cfg.Observability.HealthChecks; hc.Enabled {
		s.monitor, err = health.NewMonitor(s.Health, hc.Interval, hc.Checks, logger)
		if err != nil {
			s.close()
			return nil, err
		}
		s.monitor.Start()
	}

	return s, nil
}

// pingDatabase reports whether the database answers at startup. A failure is
// logged and the server keeps starting: requests fail with 500 and /status
// reports 503 until the database is reachable.
func (s *Server) pingDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), database.DatabasePingTimeout)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		s.Logger.Error().
			Err(err).
			Str("host", s.Config.Database.Host).
			Str("database", s.Config.Database.Name).
			Msg("database unreachable at startup, serving anyway")
		return
	}

	s.Logger.Info().
		Str("host", s.Config.Database.Host).
		Str("database", s.Config.Database.Name).
		Bool("pool", s.Config.Database.PoolEnabled).
		Msg("connected to the database")
}

func (s *Server) nrApp() *newrelic.Application {
	if s.LoggerService == nil {
		return nil
	}
	return s.LoggerService.GetApplication()
}

// setupRedis creates the redis client and starts the job worker.
func (s *Server) setupRedis() error {
	s.Redis = redis.NewClient(&redis.Options{
		Addr: s.Config.Redis.Address,
	})

	if s.nrApp() != nil {
		s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Connections are lazy; a failed ping only means notifications are
	// delayed until redis comes back.
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		s.Logger.Error().Err(err).Msg("failed to connect to redis, notifications will be queued once it is reachable")
	}

	emailClient, err := email.NewClient(s.Config, s.Logger)
	if err != nil {
		return err
	}

	s.Job = job.NewJobService(s.Logger, s.Config, emailClient)
	if err := s.Job.Start(); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	return nil
}

func (s *Server) setupHealth() {
	s.Health = health.NewChecker(s.Config.Observability.HealthChecks.Timeout, s.Logger, s.nrApp())

	s.Health.Register("database", s.DB.Ping, true)

	if s.Redis != nil {
		s.Health.Register("redis", func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}, false)
	}
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         s.Config.Server.Address(),
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server until Shutdown. It requires SetupHTTPServer.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("address", s.httpServer.Addr).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases every dependency.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.close()
	return shutdownErr
}

func (s *Server) close() {
	if s.monitor != nil {
		<-s.monitor.Stop().Done()
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if err := s.DB.Close(); err != nil {
		s.Logger.Warn().Err(err).Msg("failed to close database")
	}
}

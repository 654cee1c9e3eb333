// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// The Database provider hands out one connection per Acquire. In the
// default direct mode every Acquire opens a fresh pgx connection that is
// closed again on Release. With database.pool_enabled the same contract is
// served by a pgxpool checkout/checkin.
//
// It handles:
//   - building a DSN from config
//   - opening direct connections or a pgx connection pool (pgxpool)
//   - wiring query tracing/logging (pgx tracelog, slow query warnings)
//   - optional New Relic instrumentation (nrpgx5)
package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/dhchicaiza/registros/internal/config"
	"github.com/dhchicaiza/registros/internal/errs"
	loggerConfig "github.com/dhchicaiza/registros/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Querier is the statement surface shared by *pgx.Conn and *pgxpool.Conn.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is a connection owned by a single caller until Release.
type Conn interface {
	Querier
	Ping(ctx context.Context) error

	// Release gives the connection back. Callers must release on every
	// exit path, including not found and error returns.
	Release(ctx context.Context)
}

// Provider hands out connections.
type Provider interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close() error
}

// Database is the PostgreSQL connection provider.
//
// pool is nil in direct mode.
type Database struct {
	connConfig     *pgx.ConnConfig
	pool           *pgxpool.Pool
	connectTimeout time.Duration
	log            *zerolog.Logger
}

var _ Provider = (*Database)(nil)

// DatabasePingTimeout bounds the startup ping done by the server.
const DatabasePingTimeout = 10 * time.Second

// DSN builds the postgres URL for cfg.
//
// The password is URL-escaped so characters like ':' or '@' cannot break
// the URL, and IPv6 hosts get brackets from net.JoinHostPort.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     hostPort,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// New creates the connection provider. It does not connect: direct mode
// dials on Acquire and the pool dials lazily, so an unreachable database
// surfaces per request and through Ping.
//
// loggerService may be nil when New Relic is not configured.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	connConfig, err := pgx.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}
	connConfig.ConnectTimeout = cfg.Database.ConnectTimeout
	connConfig.Tracer = buildTracer(cfg, logger, loggerService)

	db := &Database{
		connConfig:     connConfig,
		connectTimeout: cfg.Database.ConnectTimeout,
		log:            logger,
	}

	if cfg.Database.PoolEnabled {
		db.pool, err = newPool(cfg.Database, connConfig)
		if err != nil {
			return nil, err
		}
	}

	return db, nil
}

// buildTracer assembles the query tracers for the current environment:
// New Relic when the agent runs, SQL logging in local env, slow query
// warnings whenever a threshold is configured.
func buildTracer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) pgx.QueryTracer {
	var tracers []pgx.QueryTracer

	if loggerService != nil && loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	if slow := newSlowQueryTracer(cfg.Observability.Logging.SlowQueryThreshold, *logger); slow != nil {
		tracers = append(tracers, slow)
	}

	return newQueryTracer(tracers...)
}

func newPool(cfg config.DatabaseConfig, connConfig *pgx.ConnConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	poolConfig.ConnConfig = connConfig.Copy()
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MinIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// Acquire returns a connection for a single request.
//
// Failures are classified as connection errors, or timeout errors when the
// connect deadline expired.
func (db *Database) Acquire(ctx context.Context) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, db.connectTimeout)
	defer cancel()

	if db.pool != nil {
		conn, err := db.pool.Acquire(ctx)
		if err != nil {
			return nil, acquireError(err)
		}
		return &pooledConn{Conn: conn}, nil
	}

	conn, err := pgx.ConnectConfig(ctx, db.connConfig.Copy())
	if err != nil {
		return nil, acquireError(err)
	}
	return &directConn{Conn: conn, log: db.log}, nil
}

// Ping acquires a connection, pings the server and releases it.
func (db *Database) Ping(ctx context.Context) error {
	conn, err := db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release(ctx)

	if err := conn.Ping(ctx); err != nil {
		return acquireError(err)
	}
	return nil
}

// Close closes the pool. Direct connections are closed by Release.
func (db *Database) Close() error {
	if db.pool != nil {
		db.log.Info().Msg("closing database connection pool")
		db.pool.Close()
	}
	return nil
}

func acquireError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return &errs.Error{Kind: errs.KindTimeout, Code: "DATABASE_TIMEOUT", Err: err}
	}
	return &errs.Error{Kind: errs.KindConnection, Code: "DATABASE_UNAVAILABLE", Err: err}
}

// directConn closes the underlying connection on Release.
type directConn struct {
	*pgx.Conn
	log *zerolog.Logger
}

func (c *directConn) Release(ctx context.Context) {
	// The request context may already be done; closing must still reach the server.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.Conn.Close(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to close database connection")
	}
}

// pooledConn returns the underlying connection to the pool on Release.
type pooledConn struct {
	*pgxpool.Conn
}

func (c *pooledConn) Release(context.Context) {
	c.Conn.Release()
}

// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file if present),
// loads them into structured Go types (struct), and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Provide a fallback default for every setting.
//   - Honor the legacy container variables (DB_HOST, POSTGRES_USER, ...).
//   - Map REGISTROS_ prefixed env vars into the nested Config struct.
//   - Validate required values so the app fails fast on bad config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before LoadConfig reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Config sources, lowest priority first:
	1. defaults() below
	2. legacy variables used by the Kubernetes manifests:
	   DB_HOST, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB
	3. REGISTROS_ prefixed variables. A double underscore separates levels:
	   REGISTROS_DATABASE__QUERY_TIMEOUT -> database.query_timeout
*/

// EnvPrefix is the prefix of every structured environment variable.
const EnvPrefix = "REGISTROS_"

// ServiceName tags logs, traces and the APM application.
const ServiceName = "registros"

// legacyEnv maps the container variables to their koanf keys.
var legacyEnv = map[string]string{
	"DB_HOST":           "database.host",
	"POSTGRES_USER":     "database.user",
	"POSTGRES_PASSWORD": "database.password",
	"POSTGRES_DB":       "database.name",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Host               string   `koanf:"host"`
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// ExposeErrorDetails echoes raw database errors to clients on 5xx responses.
	ExposeErrorDetails bool `koanf:"expose_error_details"`

	// RateLimit is the allowed requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig contains PostgreSQL connection parameters.
//
// PoolEnabled switches the connection provider from one connection per
// request to a pgxpool. It is off unless explicitly requested.
type DatabaseConfig struct {
	Host           string        `koanf:"host" validate:"required"`
	Port           int           `koanf:"port" validate:"required"`
	User           string        `koanf:"user" validate:"required"`
	Password       string        `koanf:"password" validate:"required"`
	Name           string        `koanf:"name" validate:"required"`
	SSLMode        string        `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	QueryTimeout   time.Duration `koanf:"query_timeout" validate:"min=1s"`

	PoolEnabled     bool          `koanf:"pool_enabled"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MinIdleConns    int           `koanf:"min_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// An empty Address disables redis and the background job worker.
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

// Enabled reports whether a redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// IntegrationConfig stores third party credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	NotifyEmail  string `koanf:"notify_email" validate:"omitempty,email"`
	EmailFrom    string `koanf:"email_from" validate:"required"`
}

// defaults holds the fallback value of every key.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"server.host":                 "0.0.0.0",
		"server.port":                 "5000",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.expose_error_details": true,
		"server.rate_limit":           0,

		"database.host":               "postgres-service",
		"database.port":               5432,
		"database.user":               "usuario",
		"database.password":           "miclave",
		"database.name":               "mibase",
		"database.ssl_mode":           "disable",
		"database.connect_timeout":    "5s",
		"database.query_timeout":      "10s",
		"database.pool_enabled":       false,
		"database.max_open_conns":     10,
		"database.min_idle_conns":     0,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"integration.email_from": "Registros <onboarding@resend.dev>",

		"observability.service_name":                          ServiceName,
		"observability.environment":                           "development",
		"observability.logging.level":                         "info",
		"observability.logging.format":                        "json",
		"observability.logging.slow_query_threshold":          "100ms",
		"observability.new_relic.license_key":                 "",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.new_relic.debug_logging":               false,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.interval":                "30s",
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{"database", "redis"},
	}
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, applies observability defaults
// and returns the result.
func LoadConfig() (*Config, error) {
	// "." is the key-path delimiter: "server.port" means Config.Server.Port.
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	// An empty key from the callback makes the env provider skip the variable,
	// so only the four legacy names are picked up here.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKey turns REGISTROS_DATABASE__QUERY_TIMEOUT into database.query_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

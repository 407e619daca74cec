// Package config defines the environment-driven configuration surface
// for both the API process and the migrator, loaded with pkg/envconf.
package config

import (
	"log/slog"
	"time"
)

// PostgresConfig carries both the store connection parameters and the
// pool-sizing knobs enumerated in spec.md §6. Defaults match the spec
// exactly: min=2, max=20, idle-timeout=30s, connection-timeout=5s.
type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	PoolMinConns    int32         `env:"PG_POOL_MIN_CONNS,default=2"`
	PoolMaxConns    int32         `env:"PG_POOL_MAX_CONNS,default=20"`
	PoolMaxConnIdle time.Duration `env:"PG_POOL_MAX_CONN_IDLE_TIME,default=30s"`
	PoolMaxConnLife time.Duration `env:"PG_POOL_MAX_CONN_LIFETIME,default=1h"`
	ConnectTimeout  time.Duration `env:"PG_CONNECT_TIMEOUT,default=5s"`
}

// LedgerConfig carries the core's behavioral knobs from spec.md §6.
// Defaults match the spec: idempotency retention 24h, retry count 3.
type LedgerConfig struct {
	RetryCount     int           `env:"LEDGER_RETRY_COUNT,default=3"`
	IdempotencyTTL time.Duration `env:"LEDGER_IDEMPOTENCY_TTL,default=24h"`
}

// APIConfig is the top-level configuration for cmd/api.
type APIConfig struct {
	Port            string        `env:"API_PORT,default=8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL,default=INFO"`
	AppEnv          string        `env:"APP_ENV,default=PROD"`
	ShutdownTimeout time.Duration `env:"API_SHUTDOWN_TIMEOUT,default=10s"`
	Postgres        PostgresConfig
	Ledger          LedgerConfig
}

// MigratorConfig is the top-level configuration for cmd/migrator.
type MigratorConfig struct {
	DSN      string     `env:"PG_DSN"`
	LogLevel slog.Level `env:"APP_LOG_LEVEL,default=INFO"`
	AppEnv   string     `env:"APP_ENV,default=PROD"`
}

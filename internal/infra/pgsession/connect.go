// Package pgsession is the persistence gateway: it owns the pooled
// connection to Postgres and exposes the scoped transactional session
// primitive every other component runs inside (spec.md §4.1).
package pgsession

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinkeep/wallet/internal/config"
)

// Connect opens a pgxpool.Pool sized per cfg and pings it before
// returning, so startup fails fast on a bad DSN.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MinConns = cfg.PoolMinConns
	poolCfg.MaxConns = cfg.PoolMaxConns
	poolCfg.MaxConnIdleTime = cfg.PoolMaxConnIdle
	poolCfg.MaxConnLifetime = cfg.PoolMaxConnLife
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Package idempotency defines the keyed-response cache contract from
// spec.md §4.5.
package idempotency

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinkeep/wallet/internal/domain"
)

// Idempotency is implemented by internal/repos/idempotency/postgres.
type Idempotency interface {
	// Lookup returns a record only if it has not expired; an expired or
	// absent record returns (nil, nil).
	Lookup(ctx context.Context, tx pgx.Tx, reference string) (*domain.IdempotencyRecord, error)

	// Store inserts rec; on a primary-key collision it does nothing
	// (first writer wins, per spec.md §4.5).
	Store(ctx context.Context, tx pgx.Tx, rec domain.IdempotencyRecord) error

	// DeleteExpired removes every record whose expiry has passed,
	// returning the number removed. Used by the janitor (SPEC_FULL.md
	// §4.5 ADD).
	DeleteExpired(ctx context.Context, pool *pgxpool.Pool, now time.Time) (int64, error)
}

package pgsession

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// serializationFailure and deadlockDetected are the Postgres error codes
// that the session wrapper treats as transient and retries. Every other
// error propagates after rollback, per spec.md §7.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// DefaultRetries is the fallback retry count when the caller does not
// override it (spec.md §6 default: 3).
const DefaultRetries = 3

// maxBackoff caps the exponential backoff between retries at 2s, per
// spec.md §4.1: "min(50·2^attempt + jitter, 2000) ms".
const maxBackoff = 2 * time.Second

// WithSession runs fn inside a single serializable transaction. It
// commits on a nil return, rolls back otherwise, and retries fn on
// serialization failures or detected deadlocks up to retries times with
// exponential backoff and jitter. fn must be deterministic with respect
// to its inputs: any generated ids or timestamps it needs must be
// produced inside fn so each attempt is self-consistent (spec.md §9).
func WithSession(ctx context.Context, pool *pgxpool.Pool, retries int, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if retries <= 0 {
		retries = DefaultRetries
	}

	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := runOnce(ctx, pool, fn)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("session: exhausted %d retries: %w", retries, lastErr)
}

func runOnce(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return fmt.Errorf("session body: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
}

func sleepBackoff(ctx context.Context, attempt int) error {
	base := 50 * math.Pow(2, float64(attempt))

	jitter, err := rand.Int(rand.Reader, big.NewInt(50))
	if err != nil {
		jitter = big.NewInt(0)
	}

	wait := time.Duration(math.Min(base+float64(jitter.Int64()), float64(maxBackoff.Milliseconds()))) * time.Millisecond

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

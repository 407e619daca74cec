// Package idempotency is the Postgres implementation of the
// idempotency-record repository.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/repos/idempotency"
)

var _ idempotency.Idempotency = (*idempotencyRepo)(nil)

type idempotencyRepo struct{}

// New returns an Idempotency repository.
func New() *idempotencyRepo {
	return &idempotencyRepo{}
}

func (r *idempotencyRepo) Lookup(ctx context.Context, tx pgx.Tx, reference string) (*domain.IdempotencyRecord, error) {
	var rec domain.IdempotencyRecord

	err := tx.QueryRow(ctx, `
		SELECT reference, status, body, created_at, expires_at
		FROM idempotency_records
		WHERE reference = $1 AND expires_at > now()
	`, reference).Scan(&rec.Reference, &rec.Status, &rec.Body, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("lookup idempotency record: %w", err)
	}

	return &rec, nil
}

func (r *idempotencyRepo) Store(ctx context.Context, tx pgx.Tx, rec domain.IdempotencyRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO idempotency_records (reference, status, body, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reference) DO NOTHING
	`, rec.Reference, rec.Status, rec.Body, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("store idempotency record: %w", err)
	}

	return nil
}

func (r *idempotencyRepo) DeleteExpired(ctx context.Context, pool *pgxpool.Pool, now time.Time) (int64, error) {
	tag, err := pool.Exec(ctx, `DELETE FROM idempotency_records WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired idempotency records: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Package transactions is the Postgres implementation of the
// transactions repository, adapted from the teacher's
// transactionsRepo.Insert (same unique-violation-to-sentinel mapping).
package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/repos/transactions"
)

const uniqueViolation = "23505"

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{}

// New returns a Transactions repository.
func New() *transactionsRepo {
	return &transactionsRepo{}
}

func (r *transactionsRepo) Insert(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	metadata, err := json.Marshal(txn.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, category, reference, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, txn.ID, txn.Category, txn.Reference, txn.Description, metadata, txn.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateReference
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

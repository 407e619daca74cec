// Package transactions defines the contract for appending the
// immutable transaction row that anchors a posting's journal entries.
package transactions

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/coinkeep/wallet/internal/domain"
)

// Transactions is implemented by internal/repos/transactions/postgres.
type Transactions interface {
	// Insert appends txn. On a unique-constraint violation of reference it
	// returns domain.ErrDuplicateReference — the secondary defense from
	// spec.md §9, reached only if an idempotency record was purged while
	// its transaction row survived.
	Insert(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

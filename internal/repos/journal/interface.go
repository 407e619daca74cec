// Package journal defines the contract for appending journal entries
// and mutating the balance cache — the two effects of a posting
// (spec.md §4.3).
package journal

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
)

// Journal is implemented by internal/repos/journal/postgres.
type Journal interface {
	// Append inserts one immutable journal entry.
	Append(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// SetBalance overwrites the cached balance for accountID to balance
	// and bumps its version. The caller must already hold the row's lock
	// (via accounts.LockAccounts) within the same tx.
	SetBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error

	// SumAmounts returns the exact decimal sum of every journal entry's
	// amount for accountID, used by the audit routine (spec.md §4.6).
	SumAmounts(ctx context.Context, pool Querier, accountID uuid.UUID) (decimal.Decimal, error)

	// History returns the most recent journal entries for accountID,
	// newest first, optionally filtered by category, plus the total
	// matching count (spec.md §4.6).
	History(ctx context.Context, pool Querier, accountID uuid.UUID, limit, offset int, category *domain.Category) (domain.HistoryPage, error)
}

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting
// read-only methods run outside of a write transaction per spec.md §5
// ("Idempotency and history queries use distinct short-lived
// connections outside of write transactions").
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

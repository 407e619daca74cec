// Package accounts defines the account-resolver contract from spec.md
// §4.2: lookups by external id (no lock) and batched, canonically
// ordered row locks for the accounts participating in a posting.
package accounts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/coinkeep/wallet/internal/domain"
)

// Accounts is implemented by internal/repos/accounts/postgres.
type Accounts interface {
	// ResolveByExternalID looks up a well-known system account by its
	// stable string identifier, without locking. A missing or inactive
	// account returns (nil, nil) — callers that require it map that to
	// domain.ErrConfiguration, since missing system accounts are an
	// operator error rather than a caller error.
	ResolveByExternalID(ctx context.Context, tx pgx.Tx, externalID string) (*domain.Account, error)

	// LockAccounts deduplicates ids, sorts them in ascending canonical
	// order, and locks each corresponding balance row in that order
	// within tx. Accounts that are missing or inactive are simply absent
	// from the result — callers must check the returned count.
	LockAccounts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Account, error)

	// AssetCodeOf returns the asset-type short code for accountID,
	// without locking. Flow handlers use it to pick the right per-asset
	// system counterparty (e.g. "treasury:diamonds") before the batched
	// lock in LockAccounts. Returns ("", false, nil) when the account is
	// missing or inactive.
	AssetCodeOf(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (code string, found bool, err error)

	// Snapshot reads the current balance row joined with its asset-type
	// display, with no lock — used by the query surface (spec.md §4.6).
	Snapshot(ctx context.Context, q Querier, accountID uuid.UUID) (*domain.BalanceSnapshot, error)
}

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

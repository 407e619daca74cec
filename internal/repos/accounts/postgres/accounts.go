// Package accounts is the Postgres implementation of the account
// resolver, adapted from the teacher's usersRepo shape (one struct
// wrapping the pool, one method per operation) to pgx.Tx.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{}

// New returns an Accounts repository. It carries no state: every method
// takes the pgx.Tx (or pool, for the unlocked lookup) it should run on,
// following the teacher's per-call tx-passing convention.
func New() *accountsRepo {
	return &accountsRepo{}
}

func (r *accountsRepo) ResolveByExternalID(ctx context.Context, tx pgx.Tx, externalID string) (*domain.Account, error) {
	row := tx.QueryRow(ctx, `
		SELECT a.id, a.external_id, a.kind, a.asset_type_id, a.display_name, a.active,
		       b.balance, b.version
		FROM accounts a
		JOIN balances b ON b.account_id = a.id
		WHERE a.external_id = $1 AND a.active
	`, externalID)

	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("resolve by external id: %w", err)
	}

	return acc, nil
}

func (r *accountsRepo) LockAccounts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Account, error) {
	ordered := canonicalOrder(ids)
	if len(ordered) == 0 {
		return nil, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT a.id, a.external_id, a.kind, a.asset_type_id, a.display_name, a.active,
		       b.balance, b.version
		FROM accounts a
		JOIN balances b ON b.account_id = a.id
		WHERE a.id = ANY($1) AND a.active
		ORDER BY a.id
		FOR UPDATE OF b
	`, ordered)
	if err != nil {
		return nil, fmt.Errorf("lock accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked account: %w", err)
		}

		out = append(out, *acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock accounts rows: %w", err)
	}

	return out, nil
}

func (r *accountsRepo) AssetCodeOf(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (string, bool, error) {
	var code string

	err := tx.QueryRow(ctx, `
		SELECT at.code
		FROM accounts a
		JOIN asset_types at ON at.id = a.asset_type_id
		WHERE a.id = $1 AND a.active
	`, accountID).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("asset code of account: %w", err)
	}

	return code, true, nil
}

func (r *accountsRepo) Snapshot(ctx context.Context, q accounts.Querier, accountID uuid.UUID) (*domain.BalanceSnapshot, error) {
	var snap domain.BalanceSnapshot

	err := q.QueryRow(ctx, `
		SELECT b.account_id, at.code, at.display_name, b.balance, b.version, b.updated_at
		FROM balances b
		JOIN accounts a ON a.id = b.account_id
		JOIN asset_types at ON at.id = b.asset_type_id
		WHERE b.account_id = $1 AND a.active
	`, accountID).Scan(&snap.AccountID, &snap.AssetCode, &snap.AssetName, &snap.Balance, &snap.Version, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, fmt.Errorf("balance snapshot: %w", err)
	}

	return &snap, nil
}

// canonicalOrder deduplicates ids and sorts them by ascending unsigned
// byte order, the canonical lock order from spec.md §4.2 that makes
// lock-graph cycles structurally impossible.
func canonicalOrder(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}

		return false
	})

	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*domain.Account, error) {
	var acc domain.Account

	err := row.Scan(
		&acc.ID, &acc.ExternalID, &acc.Kind, &acc.AssetTypeID, &acc.DisplayName, &acc.Active,
		&acc.Balance, &acc.Version,
	)
	if err != nil {
		return nil, err
	}

	return &acc, nil
}

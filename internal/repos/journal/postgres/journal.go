// Package journal is the Postgres implementation of the journal +
// balance-cache repository.
package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/repos/journal"
)

var _ journal.Journal = (*journalRepo)(nil)

type journalRepo struct{}

// New returns a Journal repository.
func New() *journalRepo {
	return &journalRepo{}
}

func (r *journalRepo) Append(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (id, transaction_id, account_id, asset_type_id, amount, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.TransactionID, entry.AccountID, entry.AssetTypeID, entry.Amount, entry.BalanceAfter, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}

	return nil
}

func (r *journalRepo) SetBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		UPDATE balances
		SET balance = $2, version = version + 1, updated_at = now()
		WHERE account_id = $1
	`, accountID, balance)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	return nil
}

func (r *journalRepo) SumAmounts(ctx context.Context, pool journal.Querier, accountID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal

	err := pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM journal_entries
		WHERE account_id = $1
	`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum amounts: %w", err)
	}

	return sum, nil
}

func (r *journalRepo) History(
	ctx context.Context,
	pool journal.Querier,
	accountID uuid.UUID,
	limit, offset int,
	category *domain.Category,
) (domain.HistoryPage, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if category != nil {
		rows, err = pool.Query(ctx, `
			SELECT je.transaction_id, t.category, je.amount, je.balance_after, je.created_at
			FROM journal_entries je
			JOIN transactions t ON t.id = je.transaction_id
			WHERE je.account_id = $1 AND t.category = $2
			ORDER BY je.created_at DESC, je.id DESC
			LIMIT $3 OFFSET $4
		`, accountID, *category, limit, offset)
	} else {
		rows, err = pool.Query(ctx, `
			SELECT je.transaction_id, t.category, je.amount, je.balance_after, je.created_at
			FROM journal_entries je
			JOIN transactions t ON t.id = je.transaction_id
			WHERE je.account_id = $1
			ORDER BY je.created_at DESC, je.id DESC
			LIMIT $2 OFFSET $3
		`, accountID, limit, offset)
	}

	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry

	for rows.Next() {
		var e domain.HistoryEntry

		if err := rows.Scan(&e.TransactionID, &e.Category, &e.Amount, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return domain.HistoryPage{}, fmt.Errorf("scan history row: %w", err)
		}

		// User-facing amount is the negation of the stored amount
		// (spec.md §4.6): income shows positive, outflow negative.
		e.Amount = e.Amount.Neg()

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return domain.HistoryPage{}, fmt.Errorf("history rows: %w", err)
	}

	total, err := r.countHistory(ctx, pool, accountID, category)
	if err != nil {
		return domain.HistoryPage{}, err
	}

	return domain.HistoryPage{Entries: entries, Total: total}, nil
}

func (r *journalRepo) countHistory(ctx context.Context, pool journal.Querier, accountID uuid.UUID, category *domain.Category) (int64, error) {
	var total int64

	var err error
	if category != nil {
		err = pool.QueryRow(ctx, `
			SELECT count(*)
			FROM journal_entries je
			JOIN transactions t ON t.id = je.transaction_id
			WHERE je.account_id = $1 AND t.category = $2
		`, accountID, *category).Scan(&total)
	} else {
		err = pool.QueryRow(ctx, `
			SELECT count(*)
			FROM journal_entries
			WHERE account_id = $1
		`, accountID).Scan(&total)
	}

	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}

	return total, nil
}

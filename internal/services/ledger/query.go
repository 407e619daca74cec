package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinkeep/wallet/internal/domain"
)

// DefaultHistoryLimit and bounds are the pagination defaults from
// spec.md §4.6.
const (
	DefaultHistoryLimit = 20
	MinHistoryLimit     = 1
	MaxHistoryLimit     = 100
)

// Balance returns the cached balance snapshot for accountID. It fails
// domain.ErrAccountNotFound if the account is missing or inactive.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID) (domain.BalanceSnapshot, error) {
	snap, err := s.accounts.Snapshot(ctx, s.pool, accountID)
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}

	return *snap, nil
}

// History returns a page of journal entries for accountID, most recent
// first, optionally filtered by category. limit and offset are clamped
// to the bounds from spec.md §4.6 (1 ≤ limit ≤ 100, offset ≥ 0, default
// limit 20).
func (s *Service) History(ctx context.Context, accountID uuid.UUID, limit, offset int, category *domain.Category) (domain.HistoryPage, error) {
	limit = clampLimit(limit)

	if offset < 0 {
		offset = 0
	}

	// Touch the account first so a missing/inactive account fails
	// ACCOUNT_NOT_FOUND instead of returning an empty page.
	if _, err := s.accounts.Snapshot(ctx, s.pool, accountID); err != nil {
		return domain.HistoryPage{}, err
	}

	page, err := s.journal.History(ctx, s.pool, accountID, limit, offset, category)
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("history: %w", err)
	}

	return page, nil
}

// Audit recomputes accountID's balance from the journal and compares it
// against the cache, within domain.AuditTolerance (spec.md §4.6).
func (s *Service) Audit(ctx context.Context, accountID uuid.UUID) (domain.AuditReport, error) {
	snap, err := s.accounts.Snapshot(ctx, s.pool, accountID)
	if err != nil {
		return domain.AuditReport{}, err
	}

	sum, err := s.journal.SumAmounts(ctx, s.pool, accountID)
	if err != nil {
		return domain.AuditReport{}, fmt.Errorf("audit: %w", err)
	}

	// Balance–journal consistency (spec.md §3): cached balance equals
	// the negated sum of the account's journal amounts.
	expected := sum.Neg()
	discrepancy := snap.Balance.Sub(expected)

	return domain.AuditReport{
		AccountID:     accountID,
		CachedBalance: snap.Balance,
		JournalSum:    sum,
		Discrepancy:   discrepancy,
		IsConsistent:  discrepancy.Abs().LessThanOrEqual(domain.AuditTolerance),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}

	if limit < MinHistoryLimit {
		return MinHistoryLimit
	}

	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}

	return limit
}

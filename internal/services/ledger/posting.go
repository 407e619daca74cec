package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
)

// post implements the posting engine from spec.md §4.3: given a debit
// account, a credit account, an asset and a positive magnitude, it
// appends the two offsetting journal entries, updates both balance
// caches, and enforces the non-negative-user-balance policy before
// writing anything.
func (s *Service) post(
	ctx context.Context,
	tx pgx.Tx,
	transactionID uuid.UUID,
	debit, credit domain.Account,
	magnitude decimal.Decimal,
	assetTypeID uuid.UUID,
) (debitAfter, creditAfter decimal.Decimal, err error) {
	if err := domain.ValidateAmount("amount", magnitude); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if debit.AssetTypeID != assetTypeID || credit.AssetTypeID != assetTypeID {
		return decimal.Zero, decimal.Zero, domain.ErrAssetMismatch
	}

	debitAfter = debit.Balance.Sub(magnitude)
	creditAfter = credit.Balance.Add(magnitude)

	if debit.Kind == domain.AccountUser && debitAfter.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()

	debitEntry := domain.JournalEntry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		AccountID:     debit.ID,
		AssetTypeID:   assetTypeID,
		Amount:        magnitude,
		BalanceAfter:  debitAfter,
		CreatedAt:     now,
	}

	creditEntry := domain.JournalEntry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		AccountID:     credit.ID,
		AssetTypeID:   assetTypeID,
		Amount:        magnitude.Neg(),
		BalanceAfter:  creditAfter,
		CreatedAt:     now,
	}

	if err := s.journal.Append(ctx, tx, debitEntry); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("append debit entry: %w", err)
	}

	if err := s.journal.Append(ctx, tx, creditEntry); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("append credit entry: %w", err)
	}

	if err := s.journal.SetBalance(ctx, tx, debit.ID, debitAfter); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("set debit balance: %w", err)
	}

	if err := s.journal.SetBalance(ctx, tx, credit.ID, creditAfter); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("set credit balance: %w", err)
	}

	return debitAfter, creditAfter, nil
}

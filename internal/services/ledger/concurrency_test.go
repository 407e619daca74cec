package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/infra/pgtestutil"
)

func seedWalletFixture(ctx context.Context, t *testing.T, pool *pgxpool.Pool, userBalance decimal.Decimal) (userID uuid.UUID) {
	t.Helper()

	assetTypeID := uuid.New()
	userID = uuid.New()
	revenueID := uuid.New()
	treasuryID := uuid.New()

	_, err := pool.Exec(ctx, `INSERT INTO asset_types (id, code, display_name) VALUES ($1, 'diamonds', 'Diamonds')`, assetTypeID)
	if err != nil {
		t.Fatalf("seed asset type: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO accounts (id, external_id, kind, asset_type_id, display_name) VALUES
			($1, NULL, 'USER', $3, 'Alice'),
			($2, 'revenue:diamonds', 'SYSTEM', $3, 'Revenue'),
			($4, 'treasury:diamonds', 'SYSTEM', $3, 'Treasury')
	`, userID, revenueID, assetTypeID, treasuryID)
	if err != nil {
		t.Fatalf("seed accounts: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO balances (account_id, asset_type_id, balance) VALUES
			($1, $3, $2),
			($4, $3, 0),
			($5, $3, 0)
	`, userID, userBalance, assetTypeID, revenueID, treasuryID)
	if err != nil {
		t.Fatalf("seed balances: %v", err)
	}

	return userID
}

// TestSpend_ConcurrentOverdraftsExactlyOneWins mirrors the teacher's
// concurrent-increase test but exercises the opposite invariant: of two
// simultaneous spends that together would overdraw the account, exactly
// one must succeed and the balance must never be observably negative.
func TestSpend_ConcurrentOverdraftsExactlyOneWins(t *testing.T) {
	t.Parallel()

	pool, cleanup := pgtestutil.NewTestPool(t)
	defer cleanup()

	userID := seedWalletFixture(testContext(t), t, pool, decimal.New(100, 0))

	svc := New(pool, 3, time.Hour)

	ctx, cancel := context.WithTimeout(testContext(t), 10*time.Second)
	defer cancel()

	results := make(chan error, 2)

	spend := func(ref string) {
		_, err := svc.Spend(ctx, MoveRequest{AccountID: userID, Amount: decimal.New(80, 0), Reference: ref})
		results <- err
	}

	go spend("overdraft-a")
	go spend("overdraft-b")

	var succeeded, insufficient int

	for i := 0; i < 2; i++ {
		err := <-results

		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || insufficient != 1 {
		t.Fatalf("want exactly one success and one insufficient-funds, got %d successes, %d insufficient", succeeded, insufficient)
	}

	snap, err := svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	if !snap.Balance.Equal(decimal.New(20, 0)) {
		t.Fatalf("want final balance 20, got %s", snap.Balance)
	}
}

func TestTopUp_IdempotentReplayReturnsSameResult(t *testing.T) {
	t.Parallel()

	pool, cleanup := pgtestutil.NewTestPool(t)
	defer cleanup()

	userID := seedWalletFixture(testContext(t), t, pool, decimal.New(500, 0))

	svc := New(pool, 3, time.Hour)

	ctx, cancel := context.WithTimeout(testContext(t), 10*time.Second)
	defer cancel()

	ref := fmt.Sprintf("topup-%s", uuid.New())

	first, err := svc.TopUp(ctx, MoveRequest{AccountID: userID, Amount: decimal.New(100, 0), Reference: ref})
	if err != nil {
		t.Fatalf("top up: %v", err)
	}

	if first.Idempotent {
		t.Fatalf("first execution must not be flagged idempotent")
	}

	second, err := svc.TopUp(ctx, MoveRequest{AccountID: userID, Amount: decimal.New(100, 0), Reference: ref})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if !second.Idempotent {
		t.Fatalf("replay must be flagged idempotent")
	}

	if !second.BalanceAfter.Equal(first.BalanceAfter) {
		t.Fatalf("replay must return the same balanceAfter: first=%s second=%s", first.BalanceAfter, second.BalanceAfter)
	}

	snap, err := svc.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	if !snap.Balance.Equal(decimal.New(600, 0)) {
		t.Fatalf("top-up must apply exactly once: want 600, got %s", snap.Balance)
	}
}

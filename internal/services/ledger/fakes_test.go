package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/repos/accounts"
	"github.com/coinkeep/wallet/internal/repos/journal"
)

// fakeTransactionsNoop and fakeIdempotencyNoop satisfy the remaining two
// repository interfaces Service requires but posting_test.go and
// query_test.go never exercise.
type fakeTransactionsNoop struct{}

func newFakeTransactionsNoop() *fakeTransactionsNoop { return &fakeTransactionsNoop{} }

func (*fakeTransactionsNoop) Insert(context.Context, pgx.Tx, domain.Transaction) error { return nil }

type fakeIdempotencyNoop struct{}

func newFakeIdempotencyNoop() *fakeIdempotencyNoop { return &fakeIdempotencyNoop{} }

func (*fakeIdempotencyNoop) Lookup(context.Context, pgx.Tx, string) (*domain.IdempotencyRecord, error) {
	return nil, nil
}

func (*fakeIdempotencyNoop) Store(context.Context, pgx.Tx, domain.IdempotencyRecord) error {
	return nil
}

func (*fakeIdempotencyNoop) DeleteExpired(context.Context, *pgxpool.Pool, time.Time) (int64, error) {
	return 0, nil
}

// fakeAccounts is an in-memory stand-in for accounts.Accounts, keyed by
// account id, used to unit test the posting engine and the query
// surface without a database.
type fakeAccounts struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[uuid.UUID]*domain.Account)}
}

func (f *fakeAccounts) seed(acc domain.Account) *domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := acc
	f.byID[acc.ID] = &cp

	return &cp
}

func (f *fakeAccounts) ResolveByExternalID(context.Context, pgx.Tx, string) (*domain.Account, error) {
	return nil, nil
}

func (f *fakeAccounts) LockAccounts(context.Context, pgx.Tx, []uuid.UUID) ([]domain.Account, error) {
	return nil, nil
}

func (f *fakeAccounts) AssetCodeOf(context.Context, pgx.Tx, uuid.UUID) (string, bool, error) {
	return "", false, nil
}

func (f *fakeAccounts) Snapshot(_ context.Context, _ accounts.Querier, accountID uuid.UUID) (*domain.BalanceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.byID[accountID]
	if !ok || !acc.Active {
		return nil, domain.ErrAccountNotFound
	}

	return &domain.BalanceSnapshot{
		AccountID: acc.ID,
		AssetCode: assetCodeFixture,
		AssetName: "Diamonds",
		Balance:   acc.Balance,
		Version:   acc.Version,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeAccounts) setBalance(id uuid.UUID, balance decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if acc, ok := f.byID[id]; ok {
		acc.Balance = balance
		acc.Version++
	}
}

const assetCodeFixture = "diamonds"

// fakeJournal is an in-memory stand-in for journal.Journal that also
// writes through to a fakeAccounts so posting.go's two-sided balance
// update is observable by tests.
type fakeJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
	backing *fakeAccounts
}

func newFakeJournal(backing *fakeAccounts) *fakeJournal {
	return &fakeJournal{backing: backing}
}

func (f *fakeJournal) Append(_ context.Context, _ pgx.Tx, entry domain.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, entry)

	return nil
}

func (f *fakeJournal) SetBalance(_ context.Context, _ pgx.Tx, accountID uuid.UUID, balance decimal.Decimal) error {
	f.backing.setBalance(accountID, balance)

	return nil
}

func (f *fakeJournal) SumAmounts(_ context.Context, _ journal.Querier, accountID uuid.UUID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sum := decimal.Zero

	for _, e := range f.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}

	return sum, nil
}

func (f *fakeJournal) History(_ context.Context, _ journal.Querier, accountID uuid.UUID, limit, offset int, _ *domain.Category) (domain.HistoryPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []domain.JournalEntry

	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.AccountID == accountID {
			matches = append(matches, e)
		}
	}

	page := domain.HistoryPage{Total: int64(len(matches))}

	for i, e := range matches {
		if i < offset {
			continue
		}

		if len(page.Entries) >= limit {
			break
		}

		page.Entries = append(page.Entries, domain.HistoryEntry{
			TransactionID: e.TransactionID,
			Amount:        e.Amount.Neg(),
			BalanceAfter:  e.BalanceAfter,
			CreatedAt:     e.CreatedAt,
		})
	}

	return page, nil
}

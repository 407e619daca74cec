// Package ledger is the transactional ledger core: the posting engine,
// the three flow handlers, and the read-only query surface described in
// spec.md §4.
package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinkeep/wallet/internal/infra/pgsession"
	"github.com/coinkeep/wallet/internal/repos/accounts"
	"github.com/coinkeep/wallet/internal/repos/idempotency"
	"github.com/coinkeep/wallet/internal/repos/journal"
	"github.com/coinkeep/wallet/internal/repos/transactions"
)

// Service is the concrete core, wired over the connection pool and the
// four repositories from spec.md §4. It carries no other mutable state —
// the pool is the only process-wide singleton (spec.md §9).
type Service struct {
	pool                   *pgxpool.Pool
	retries                int
	idempotencyTTLOverride time.Duration

	accounts     accounts.Accounts
	journal      journal.Journal
	transactions transactions.Transactions
	idempotency  idempotency.Idempotency
}

// New wires a Service over pool using the Postgres implementation of
// every repository, mirroring the teacher's balance.New(db) constructor.
func New(pool *pgxpool.Pool, retries int, idempotencyTTL time.Duration) *Service {
	return NewWithRepos(pool, retries, idempotencyTTL, accountsPg(), journalPg(), transactionsPg(), idempotencyPg())
}

// NewWithRepos wires a Service over explicit repository implementations,
// used by tests to substitute in-memory fake repos.
func NewWithRepos(
	pool *pgxpool.Pool,
	retries int,
	idempotencyTTL time.Duration,
	accountsRepo accounts.Accounts,
	journalRepo journal.Journal,
	transactionsRepo transactions.Transactions,
	idempotencyRepo idempotency.Idempotency,
) *Service {
	return &Service{
		pool:                   pool,
		retries:                retries,
		idempotencyTTLOverride: idempotencyTTL,
		accounts:               accountsRepo,
		journal:                journalRepo,
		transactions:           transactionsRepo,
		idempotency:            idempotencyRepo,
	}
}

// withRetry runs fn inside the persistence gateway's scoped session.
func (s *Service) withRetry(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return pgsession.WithSession(ctx, s.pool, s.retries, fn)
}

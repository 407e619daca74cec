package ledger

import (
	pgaccounts "github.com/coinkeep/wallet/internal/repos/accounts/postgres"
	"github.com/coinkeep/wallet/internal/repos/idempotency"
	pgidempotency "github.com/coinkeep/wallet/internal/repos/idempotency/postgres"
	"github.com/coinkeep/wallet/internal/repos/journal"
	pgjournal "github.com/coinkeep/wallet/internal/repos/journal/postgres"
	"github.com/coinkeep/wallet/internal/repos/transactions"
	pgtransactions "github.com/coinkeep/wallet/internal/repos/transactions/postgres"

	"github.com/coinkeep/wallet/internal/repos/accounts"
)

func accountsPg() accounts.Accounts             { return pgaccounts.New() }
func journalPg() journal.Journal                { return pgjournal.New() }
func transactionsPg() transactions.Transactions { return pgtransactions.New() }
func idempotencyPg() idempotency.Idempotency    { return pgidempotency.New() }

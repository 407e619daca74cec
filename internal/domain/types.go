// Package domain holds the ledger's core entities and error taxonomy,
// shared by every repository and service in the module.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind distinguishes system accounts (which may carry a negative
// balance) from user accounts (which may not).
type AccountKind string

const (
	AccountSystem AccountKind = "SYSTEM"
	AccountUser   AccountKind = "USER"
)

// Category identifies which of the three money-movement flows produced a
// transaction.
type Category string

const (
	CategoryTopUp Category = "TOP_UP"
	CategoryBonus Category = "BONUS"
	CategorySpend Category = "SPEND"
)

// AssetType is a virtual-currency denomination (coins, diamonds, points).
type AssetType struct {
	ID          uuid.UUID
	Code        string
	DisplayName string
	Active      bool
}

// Account is a ledger participant: a system account (treasury, bonus
// pool, revenue) or a user's wallet.
type Account struct {
	ID          uuid.UUID
	ExternalID  *string
	Kind        AccountKind
	AssetTypeID uuid.UUID
	DisplayName string
	Active      bool

	// Balance and Version are the cached balance row's current values,
	// populated by whichever resolver call returned this Account. They are
	// snapshots, not a live view.
	Balance decimal.Decimal
	Version int64
}

// Transaction is the immutable record of a single business request.
type Transaction struct {
	ID          uuid.UUID
	Category    Category
	Reference   string
	Description string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// JournalEntry is one leg of a double-entry posting. Amount follows the
// sign convention from spec.md §3: positive means value leaves Account's
// balance (a debit), negative means it arrives (a credit).
type JournalEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	AssetTypeID   uuid.UUID
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// IdempotencyRecord captures a prior response so that a replayed request
// returns the exact same outcome without re-executing the flow.
type IdempotencyRecord struct {
	Reference    string
	Status       int
	Body         []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// FlowResult is what every flow handler (TopUp, Bonus, Spend) produces on
// a fresh execution; the façade serializes it as the success-data object
// from spec.md §6.
type FlowResult struct {
	TransactionID uuid.UUID
	Reference     string
	Category      Category
	AccountID     uuid.UUID
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	CreatedAt     time.Time
	Idempotent    bool
}

// BalanceSnapshot is the response to a balance lookup.
type BalanceSnapshot struct {
	AccountID   uuid.UUID
	AssetCode   string
	AssetName   string
	Balance     decimal.Decimal
	Version     int64
	UpdatedAt   time.Time
}

// HistoryEntry is one row of a paginated journal history; Amount is
// already negated from the stored value so income reads positive.
type HistoryEntry struct {
	TransactionID uuid.UUID
	Category      Category
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// HistoryPage is a bounded slice of HistoryEntry plus the total count
// available under the same filter.
type HistoryPage struct {
	Entries []HistoryEntry
	Total   int64
}

// AuditReport is the result of recomputing a balance from the journal and
// comparing it against the cache.
type AuditReport struct {
	AccountID     uuid.UUID
	CachedBalance decimal.Decimal
	JournalSum    decimal.Decimal
	Discrepancy   decimal.Decimal
	IsConsistent  bool
}

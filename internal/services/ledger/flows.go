package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
)

// System-account roles. Each asset type has its own treasury, bonus-pool
// and revenue account, addressed by a well-known external id of the
// form "<role>:<asset code>" (lowercase), e.g. "treasury:diamonds".
const (
	roleTreasury  = "treasury"
	roleBonusPool = "bonus_pool"
	roleRevenue   = "revenue"
)

// MoveRequest is the caller-supplied input shared by TopUp, Bonus and
// Spend (spec.md §6's mutating request body).
type MoveRequest struct {
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Reference   string
	Description string
	Metadata    map[string]any
}

// TopUp records a purchased-credit posting: Treasury (debit) → user
// account (credit).
func (s *Service) TopUp(ctx context.Context, req MoveRequest) (domain.FlowResult, error) {
	return s.execute(ctx, domain.CategoryTopUp, roleTreasury, req)
}

// Bonus records a gratis-credit posting: bonus pool (debit) → user
// account (credit).
func (s *Service) Bonus(ctx context.Context, req MoveRequest) (domain.FlowResult, error) {
	return s.execute(ctx, domain.CategoryBonus, roleBonusPool, req)
}

// Spend records a debit-to-revenue posting: user account (debit) →
// revenue (credit).
func (s *Service) Spend(ctx context.Context, req MoveRequest) (domain.FlowResult, error) {
	return s.execute(ctx, domain.CategorySpend, roleRevenue, req)
}

// execute implements the uniform flow algorithm from spec.md §4.4 for
// all three orchestrations, differing only in which side of the posting
// the user account sits on.
func (s *Service) execute(ctx context.Context, category domain.Category, systemRole string, req MoveRequest) (domain.FlowResult, error) {
	if err := validateMoveRequest(req); err != nil {
		return domain.FlowResult{}, err
	}

	var result domain.FlowResult

	err := s.withRetry(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if hit, err := s.replayIfIdempotent(ctx, tx, req.Reference, &result); err != nil {
			return err
		} else if hit {
			return nil
		}

		assetCode, found, err := s.accounts.AssetCodeOf(ctx, tx, req.AccountID)
		if err != nil {
			return fmt.Errorf("asset code of account: %w", err)
		}

		if !found {
			return domain.ErrAccountNotFound
		}

		counterparty, err := s.accounts.ResolveByExternalID(ctx, tx, systemExternalID(systemRole, assetCode))
		if err != nil {
			return fmt.Errorf("resolve system counterparty: %w", err)
		}

		if counterparty == nil {
			return domain.ErrConfiguration
		}

		locked, err := s.accounts.LockAccounts(ctx, tx, []uuid.UUID{req.AccountID, counterparty.ID})
		if err != nil {
			return fmt.Errorf("lock accounts: %w", err)
		}

		user, system, err := splitLocked(locked, req.AccountID, counterparty.ID)
		if err != nil {
			return err
		}

		if user.AssetTypeID != system.AssetTypeID {
			return domain.ErrAssetMismatch
		}

		if category == domain.CategorySpend && user.Balance.LessThan(req.Amount) {
			return domain.ErrInsufficientFunds
		}

		txnID := uuid.New()
		now := time.Now().UTC()

		txn := domain.Transaction{
			ID:          txnID,
			Category:    category,
			Reference:   req.Reference,
			Description: req.Description,
			Metadata:    req.Metadata,
			CreatedAt:   now,
		}

		if err := s.transactions.Insert(ctx, tx, txn); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		debit, credit := rolesFor(category, *user, *system)

		debitAfter, creditAfter, err := s.post(ctx, tx, txnID, debit, credit, req.Amount, user.AssetTypeID)
		if err != nil {
			return err
		}

		userBalanceAfter := debitAfter
		if credit.ID == user.ID {
			userBalanceAfter = creditAfter
		}

		result = domain.FlowResult{
			TransactionID: txnID,
			Reference:     req.Reference,
			Category:      category,
			AccountID:     req.AccountID,
			Amount:        req.Amount,
			BalanceAfter:  userBalanceAfter,
			Description:   req.Description,
			CreatedAt:     now,
			Idempotent:    false,
		}

		body, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("marshal flow result: %w", err)
		}

		rec := domain.IdempotencyRecord{
			Reference: req.Reference,
			Status:    201,
			Body:      body,
			CreatedAt: now,
			ExpiresAt: now.Add(s.idempotencyTTL()),
		}

		if err := s.idempotency.Store(ctx, tx, rec); err != nil {
			return fmt.Errorf("store idempotency record: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.FlowResult{}, err
	}

	return result, nil
}

// replayIfIdempotent checks the idempotency store for req's reference;
// on a live hit it decodes the stored response into out, sets its
// Idempotent flag, and returns hit=true so the caller performs no
// further work (spec.md §4.4 step 1).
func (s *Service) replayIfIdempotent(ctx context.Context, tx pgx.Tx, reference string, out *domain.FlowResult) (hit bool, err error) {
	rec, err := s.idempotency.Lookup(ctx, tx, reference)
	if err != nil {
		return false, fmt.Errorf("idempotency lookup: %w", err)
	}

	if rec == nil {
		return false, nil
	}

	if err := json.Unmarshal(rec.Body, out); err != nil {
		return false, fmt.Errorf("decode stored response: %w", err)
	}

	out.Idempotent = true

	return true, nil
}

func rolesFor(category domain.Category, user, system domain.Account) (debit, credit domain.Account) {
	if category == domain.CategorySpend {
		return user, system
	}

	return system, user
}

func splitLocked(locked []domain.Account, userID, systemID uuid.UUID) (user, system *domain.Account, err error) {
	for i := range locked {
		switch locked[i].ID {
		case userID:
			user = &locked[i]
		case systemID:
			system = &locked[i]
		}
	}

	if user == nil {
		return nil, nil, domain.ErrAccountNotFound
	}

	if system == nil {
		return nil, nil, domain.ErrConfiguration
	}

	return user, system, nil
}

func systemExternalID(role, assetCode string) string {
	return fmt.Sprintf("%s:%s", role, assetCode)
}

func validateMoveRequest(req MoveRequest) error {
	if req.Reference == "" {
		return domain.Validation("referenceId", "reference is required")
	}

	if len(req.Reference) > 255 {
		return domain.Validation("referenceId", "reference must be at most 255 characters")
	}

	if len(req.Description) > 500 {
		return domain.Validation("description", "description must be at most 500 characters")
	}

	return domain.ValidateAmount("amount", req.Amount)
}

func (s *Service) idempotencyTTL() time.Duration {
	if s.idempotencyTTLOverride > 0 {
		return s.idempotencyTTLOverride
	}

	return 24 * time.Hour
}

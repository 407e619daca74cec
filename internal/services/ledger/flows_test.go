package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
)

func TestValidateMoveRequest(t *testing.T) {
	t.Parallel()

	valid := MoveRequest{Reference: "ref-1", Amount: decimal.New(10, 0)}
	if err := validateMoveRequest(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missingRef := valid
	missingRef.Reference = ""

	if err := validateMoveRequest(missingRef); err == nil {
		t.Fatalf("want error for missing reference")
	}

	negative := valid
	negative.Amount = decimal.New(-5, 0)

	if err := validateMoveRequest(negative); err == nil {
		t.Fatalf("want error for non-positive amount")
	}
}

func TestRolesFor(t *testing.T) {
	t.Parallel()

	user := domain.Account{ID: uuid.New()}
	system := domain.Account{ID: uuid.New()}

	debit, credit := rolesFor(domain.CategorySpend, user, system)
	if debit.ID != user.ID || credit.ID != system.ID {
		t.Fatalf("spend must debit the user and credit the system account")
	}

	debit, credit = rolesFor(domain.CategoryTopUp, user, system)
	if debit.ID != system.ID || credit.ID != user.ID {
		t.Fatalf("top-up must debit the system account and credit the user")
	}
}

func TestSplitLocked(t *testing.T) {
	t.Parallel()

	userID, systemID := uuid.New(), uuid.New()
	locked := []domain.Account{{ID: userID}, {ID: systemID}}

	user, system, err := splitLocked(locked, userID, systemID)
	if err != nil {
		t.Fatalf("splitLocked: %v", err)
	}

	if user.ID != userID || system.ID != systemID {
		t.Fatalf("splitLocked returned the wrong accounts")
	}
}

func TestSplitLocked_MissingUser(t *testing.T) {
	t.Parallel()

	systemID := uuid.New()
	locked := []domain.Account{{ID: systemID}}

	_, _, err := splitLocked(locked, uuid.New(), systemID)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestSplitLocked_MissingSystemAccount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	locked := []domain.Account{{ID: userID}}

	_, _, err := splitLocked(locked, userID, uuid.New())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
}

func TestSystemExternalID(t *testing.T) {
	t.Parallel()

	got := systemExternalID(roleTreasury, "diamonds")
	if got != "treasury:diamonds" {
		t.Fatalf("want %q, got %q", "treasury:diamonds", got)
	}
}

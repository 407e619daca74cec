package domain

import (
	"errors"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	t.Parallel()

	wrapped := &Error{Kind: KindInsufficientFunds, Message: "account 42 would go negative"}

	if !errors.Is(wrapped, ErrInsufficientFunds) {
		t.Fatalf("expected errors.Is to match by Kind regardless of message")
	}

	if errors.Is(wrapped, ErrAccountNotFound) {
		t.Fatalf("expected errors.Is to reject a different Kind")
	}
}

func TestValidationCarriesField(t *testing.T) {
	t.Parallel()

	err := Validation("amount", "amount must be positive")

	if err.Kind != KindValidation {
		t.Fatalf("want Kind %s, got %s", KindValidation, err.Kind)
	}

	if err.Field != "amount" {
		t.Fatalf("want Field %q, got %q", "amount", err.Field)
	}

	if !errors.Is(err, &Error{Kind: KindValidation}) {
		t.Fatalf("expected a fresh VALIDATION_ERROR sentinel to match by Kind")
	}
}

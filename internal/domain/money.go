package domain

import "github.com/shopspring/decimal"

// MaxFractionalDigits and MaxMagnitude are the precision and range
// constraints from spec.md §3: "amounts are fixed-point decimals with up
// to 8 fractional digits and magnitude ≤ 10⁷ per posting."
const MaxFractionalDigits int32 = 8

// AuditTolerance is the absolute tolerance used when comparing a cached
// balance against a full journal recomputation (spec.md §3, §4.6).
var (
	MaxMagnitude   = decimal.New(10_000_000, 0)
	AuditTolerance = decimal.New(1, -8)
)

// ValidateAmount enforces the monetary precision and range invariants on
// a caller-supplied amount. It is deliberately strict: callers validate
// once at the boundary, and every downstream component can assume the
// value already satisfies these constraints.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return Validation(field, "amount must be positive")
	}

	if amount.Exponent() < -MaxFractionalDigits {
		return Validation(field, "amount supports at most 8 fractional digits")
	}

	if amount.Abs().GreaterThan(MaxMagnitude) {
		return Validation(field, "amount exceeds the maximum magnitude of 10,000,000")
	}

	return nil
}

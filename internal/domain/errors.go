package domain

import "fmt"

// Kind is the error taxonomy from spec.md §7. The HTTP façade maps a Kind
// to a status code; the core never knows about status codes.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindAccountNotFound    Kind = "ACCOUNT_NOT_FOUND"
	KindAssetMismatch      Kind = "ASSET_MISMATCH"
	KindInsufficientFunds  Kind = "INSUFFICIENT_BALANCE"
	KindDuplicateReference Kind = "DUPLICATE_REFERENCE"
	KindConfiguration      Kind = "CONFIGURATION"
	KindUnavailable        Kind = "UNAVAILABLE"
)

// Error is a tagged error carrying a Kind from the taxonomy plus a
// human-readable message and, for validation failures, the offending
// field. Validation and business-rule failures the core returns are
// *Error values; errors from the store or driver are returned wrapped as
// they came, not as *Error, so the façade reports them as internal
// errors. Nothing in the module currently produces ErrUnavailable.
type Error struct {
	Kind    Kind
	Message string
	Field   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Kind, e.Message, e.Field)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, ErrAccountNotFound) match any *Error sharing the
// same Kind, regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Sentinels for errors.Is against a specific Kind, mirroring the
// teacher's sentinel-per-outcome style (ErrUserNotFound,
// ErrInsufficientFunds, ErrDuplicateTransaction).
var (
	ErrAccountNotFound    = newErr(KindAccountNotFound, "account not found or inactive")
	ErrAssetMismatch      = newErr(KindAssetMismatch, "accounts do not share an asset type")
	ErrInsufficientFunds  = newErr(KindInsufficientFunds, "account balance would go negative")
	ErrDuplicateReference = newErr(KindDuplicateReference, "reference already used by a different request")
	ErrConfiguration      = newErr(KindConfiguration, "required system account is missing")
	ErrUnavailable        = newErr(KindUnavailable, "store unavailable")
)

// Validation builds a field-tagged VALIDATION_ERROR.
func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Field: field}
}

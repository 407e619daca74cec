package api

import (
	"errors"
	"net/http"

	"github.com/coinkeep/wallet/internal/domain"
)

// statusFor maps a domain error to the HTTP status codes enumerated in
// spec.md §6. This mapping is the façade's responsibility; the core
// never imports net/http.
func statusFor(err error) int {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return http.StatusInternalServerError
	}

	switch derr.Kind {
	case domain.KindValidation, domain.KindAssetMismatch:
		return http.StatusBadRequest
	case domain.KindAccountNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.KindDuplicateReference:
		return http.StatusConflict
	case domain.KindConfiguration:
		return http.StatusInternalServerError
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.Message
	}

	return "internal error"
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/coinkeep/wallet/internal/domain"
	"github.com/coinkeep/wallet/internal/services/ledger"
)

// HandlerProvider wraps the ledger core and exposes its HTTP handlers,
// following the teacher's HandlerProvider shape.
type HandlerProvider struct {
	svc      *ledger.Service
	validate *validator.Validate
}

// NewHandler returns a new HandlerProvider.
func NewHandler(svc *ledger.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc, validate: validator.New()}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   messageFor(err),
	})
}

func writeValidationError(w http.ResponseWriter, field, msg string) {
	writeDomainError(w, domain.Validation(field, msg))
}

func parseAccountID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "accountId")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid accountId: %w", err)
	}

	return id, nil
}

func (h *HandlerProvider) decodeMoveRequest(w http.ResponseWriter, r *http.Request) (moveRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	var req moveRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeValidationError(w, "", "empty request body")
		} else {
			writeValidationError(w, "", "invalid JSON body")
		}

		return moveRequest{}, false
	}

	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, "", err.Error())

		return moveRequest{}, false
	}

	return req, true
}

func toMoveRequest(accountID uuid.UUID, req moveRequest) ledger.MoveRequest {
	return ledger.MoveRequest{
		AccountID:   accountID,
		Amount:      req.Amount,
		Reference:   req.ReferenceID,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
}

// --- Mutating handlers ---

func (h *HandlerProvider) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	h.handleFlow(w, r, h.svc.TopUp)
}

func (h *HandlerProvider) BonusHandler(w http.ResponseWriter, r *http.Request) {
	h.handleFlow(w, r, h.svc.Bonus)
}

func (h *HandlerProvider) SpendHandler(w http.ResponseWriter, r *http.Request) {
	h.handleFlow(w, r, h.svc.Spend)
}

type flowFn func(ctx context.Context, req ledger.MoveRequest) (domain.FlowResult, error)

func (h *HandlerProvider) handleFlow(w http.ResponseWriter, r *http.Request, flow flowFn) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeValidationError(w, "accountId", "must be a valid UUID")

		return
	}

	req, ok := h.decodeMoveRequest(w, r)
	if !ok {
		return
	}

	result, err := flow(r.Context(), toMoveRequest(accountID, req))
	if err != nil {
		writeDomainError(w, err)

		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}

	writeSuccess(w, status, toFlowResponse(result))
}

// --- Query handlers ---

func (h *HandlerProvider) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeValidationError(w, "accountId", "must be a valid UUID")

		return
	}

	snap, err := h.svc.Balance(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeSuccess(w, http.StatusOK, toBalanceResponse(snap))
}

func (h *HandlerProvider) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeValidationError(w, "accountId", "must be a valid UUID")

		return
	}

	limit := parseIntQuery(r, "limit", ledger.DefaultHistoryLimit)
	offset := parseIntQuery(r, "offset", 0)

	var category *domain.Category

	if raw := r.URL.Query().Get("category"); raw != "" {
		c := domain.Category(raw)
		category = &c
	}

	page, err := h.svc.History(r.Context(), accountID, limit, offset, category)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeSuccess(w, http.StatusOK, toHistoryResponse(page, limit, offset))
}

func (h *HandlerProvider) AuditHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := parseAccountID(r)
	if err != nil {
		writeValidationError(w, "accountId", "must be a valid UUID")

		return
	}

	report, err := h.svc.Audit(r.Context(), accountID)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeSuccess(w, http.StatusOK, toAuditResponse(report))
}

func parseIntQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return v
}

package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinkeep/wallet/internal/domain"
)

// moveRequest is the JSON request body for the three mutating endpoints,
// matching spec.md §6's "Request bodies for mutating endpoints" exactly.
type moveRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	ReferenceID string          `json:"referenceId" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=500"`
	Metadata    map[string]any  `json:"metadata"`
}

// flowResponse is the success-data object for a mutating endpoint.
type flowResponse struct {
	TransactionID string          `json:"transactionId"`
	ReferenceID   string          `json:"referenceId"`
	Type          domain.Category `json:"type"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Description   string          `json:"description"`
	CreatedAt     string          `json:"createdAt"`
	Idempotent    *bool           `json:"idempotent,omitempty"`
}

func toFlowResponse(r domain.FlowResult) flowResponse {
	resp := flowResponse{
		TransactionID: r.TransactionID.String(),
		ReferenceID:   r.Reference,
		Type:          r.Category,
		AccountID:     r.AccountID.String(),
		Amount:        r.Amount,
		BalanceAfter:  r.BalanceAfter,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}

	if r.Idempotent {
		idempotent := true
		resp.Idempotent = &idempotent
	}

	return resp
}

// balanceResponse is the response body for GET .../balance.
type balanceResponse struct {
	AccountID string          `json:"accountId"`
	AssetCode string          `json:"assetCode"`
	AssetName string          `json:"assetName"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	UpdatedAt string          `json:"updatedAt"`
}

func toBalanceResponse(s domain.BalanceSnapshot) balanceResponse {
	return balanceResponse{
		AccountID: s.AccountID.String(),
		AssetCode: s.AssetCode,
		AssetName: s.AssetName,
		Balance:   s.Balance,
		Version:   s.Version,
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// historyEntryResponse is one row of GET .../history.
type historyEntryResponse struct {
	TransactionID string          `json:"transactionId"`
	Category      domain.Category `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	CreatedAt     string          `json:"createdAt"`
}

type historyResponse struct {
	Entries []historyEntryResponse `json:"entries"`
	Total   int64                  `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

func toHistoryResponse(p domain.HistoryPage, limit, offset int) historyResponse {
	entries := make([]historyEntryResponse, 0, len(p.Entries))

	for _, e := range p.Entries {
		entries = append(entries, historyEntryResponse{
			TransactionID: e.TransactionID.String(),
			Category:      e.Category,
			Amount:        e.Amount,
			BalanceAfter:  e.BalanceAfter,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}

	return historyResponse{Entries: entries, Total: p.Total, Limit: limit, Offset: offset}
}

// auditResponse is the response body for GET .../audit.
type auditResponse struct {
	AccountID     string          `json:"accountId"`
	CachedBalance decimal.Decimal `json:"cachedBalance"`
	JournalSum    decimal.Decimal `json:"journalSum"`
	Discrepancy   decimal.Decimal `json:"discrepancy"`
	IsConsistent  bool            `json:"isConsistent"`
}

func toAuditResponse(r domain.AuditReport) auditResponse {
	return auditResponse{
		AccountID:     r.AccountID.String(),
		CachedBalance: r.CachedBalance,
		JournalSum:    r.JournalSum,
		Discrepancy:   r.Discrepancy,
		IsConsistent:  r.IsConsistent,
	}
}

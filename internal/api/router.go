package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinkeep/wallet/internal/services/ledger"
)

// NewRouter constructs the HTTP handler for every endpoint in SPEC_FULL
// §6, following the teacher's chi-based router.
func NewRouter(svc *ledger.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1/accounts/{accountId}", func(r chi.Router) {
		r.Post("/top-up", h.TopUpHandler)
		r.Post("/bonus", h.BonusHandler)
		r.Post("/spend", h.SpendHandler)
		r.Get("/balance", h.BalanceHandler)
		r.Get("/history", h.HistoryHandler)
		r.Get("/audit", h.AuditHandler)
	})

	return r
}

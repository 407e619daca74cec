package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/coinkeep/wallet/internal/services/ledger"
)

// NewServer creates and returns a configured *http.Server for the ledger
// API, following the teacher's NewServer shape.
func NewServer(port string, svc *ledger.Service) *http.Server {
	mux := NewRouter(svc)

	addr := fmt.Sprintf(":%s", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

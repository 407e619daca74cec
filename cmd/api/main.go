package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinkeep/wallet/internal/api"
	"github.com/coinkeep/wallet/internal/config"
	"github.com/coinkeep/wallet/internal/infra/logging"
	"github.com/coinkeep/wallet/internal/infra/pgsession"
	"github.com/coinkeep/wallet/internal/services/ledger"
	"github.com/coinkeep/wallet/pkg/envconf"
	"github.com/coinkeep/wallet/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(config.APIConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	pool, err := pgsession.Connect(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}

	shutdownqueue.Add(func(_ context.Context) error {
		slog.Info("close postgres pool")
		pool.Close()

		return nil
	})

	ledgerSrv := ledger.New(pool, cfg.Ledger.RetryCount, cfg.Ledger.IdempotencyTTL)

	// --- Idempotency janitor ---
	janitorCtx, cancelJanitor := context.WithCancel(context.Background())

	go ledgerSrv.RunJanitor(janitorCtx, janitorInterval(cfg.Ledger.IdempotencyTTL))

	shutdownqueue.Add(func(_ context.Context) error {
		slog.Info("stop idempotency janitor")
		cancelJanitor()

		return nil
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, ledgerSrv)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

// janitorInterval ties the sweep cadence to the idempotency retention
// window rather than a fixed constant, so a shorter TTL in one
// deployment doesn't leave stale rows around for a full default cycle.
func janitorInterval(ttl time.Duration) time.Duration {
	const divisor = 24

	const minInterval = time.Minute

	interval := ttl / divisor
	if interval < minInterval {
		return minInterval
	}

	return interval
}

package ledger

import (
	"context"
	"log/slog"
	"time"
)

// RunJanitor periodically deletes expired idempotency records until ctx
// is cancelled. It is the "garbage collected out-of-band" mechanism
// spec.md §4.5 calls for without specifying one; cmd/api/main.go starts
// it as a goroutine and stops it via pkg/shutdownqueue.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.idempotency.DeleteExpired(ctx, s.pool, time.Now().UTC())
			if err != nil {
				slog.Error("janitor: delete expired idempotency records failed", "error", err)

				continue
			}

			if n > 0 {
				slog.Info("janitor: purged expired idempotency records", "count", n)
			}
		}
	}
}

package notify

import (
	"context"
	"log/slog"
	"time"
)

// StartWorker runs a background loop that processes due notifications on an
// interval. Optional: deployments driven purely by the external /cron
// trigger leave it disabled. Safe to run alongside the trigger because
// ClaimDue hands each entry to exactly one run. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func StartWorker(ctx context.Context, proc *Processor, interval time.Duration, logger *slog.Logger) {
	logger.Info("Dispatch worker started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			processed, err := proc.Run(ctx)
			if err != nil {
				logger.Error("dispatch run error", "error", err)
			} else if processed > 0 {
				logger.Info("dispatch run", "processed", processed)
			}
		case <-ctx.Done():
			logger.Info("Dispatch worker stopped")
			return
		}
	}
}

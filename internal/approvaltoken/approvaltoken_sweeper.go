package approvaltoken

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunSweeper deletes stale tokens every interval until ctx is done.
func RunSweeper(ctx context.Context, svc Service, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("approvaltoken.sweeper")

	sweep := func() {
		if _, err := svc.Sweep(ctx); err != nil && ctx.Err() == nil {
			logger.Error("token sweep failed", zap.Error(err))
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("token sweeper stopped")
			return
		case <-ticker.C:
			sweep()
		}
	}
}

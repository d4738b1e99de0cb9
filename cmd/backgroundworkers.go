package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/translateme/translateme/history"
)

// backgroundPruneHistory drops history for sessions that have been idle
// longer than ttl. It returns when ctx is done.
func backgroundPruneHistory(
	ctx context.Context,
	store *history.Store,
	ttl time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) error {
	if ttl <= 0 {
		logger.Info("history pruning disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		logger.Debug("running background job: prune idle history")
		if n := store.Prune(ttl); n > 0 {
			logger.Info("pruned idle history", zap.Int("sessions", n), zap.Int("remaining", store.Sessions()))
		}
	}
}

package cache

import (
	"context"
	"log/slog"
	"time"

	"library-ledger/internal/worker"
)

const invalidateTimeout = 2 * time.Second

// NewInvalidator 回傳一個函式，呼叫時交由 worker pool 非同步刪除 keys
func NewInvalidator(c Cache, pool worker.Pool, logger *slog.Logger, keys ...string) func() {
	if logger == nil {
		logger = slog.Default()
	}
	return func() {
		ok := pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
			defer cancel()
			if err := c.Del(ctx, keys...).Err(); err != nil {
				logger.Warn("cache invalidation failed", "keys", keys, "error", err)
				return
			}
			logger.Debug("cache invalidated", "keys", keys)
		})
		if !ok {
			logger.Warn("worker pool stopped, cache not invalidated", "keys", keys)
		}
	}
}

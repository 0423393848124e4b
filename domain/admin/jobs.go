package admin

import (
	"context"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/log"
)

const purgeJobTimeout = 30 * time.Second

// NewPurgeResetTokensJob returns a cron callback that clears expired reset
// tokens. Failures are logged and retried on the next tick.
func NewPurgeResetTokensJob(service AdminService, logger *log.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeJobTimeout)
		defer cancel()

		ctx = log.ContextWithLogger(ctx, logger.With("job", "purge_reset_tokens"))
		if _, err := service.PurgeExpiredResetTokens(ctx); err != nil {
			logger.Warn("Reset token purge failed", "error", err)
		}
	}
}

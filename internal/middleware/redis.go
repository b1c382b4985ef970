// internal/middleware/redis.go

package middleware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// MonitorMedium pings the session medium periodically and logs state
// changes until ctx is done.
func MonitorMedium(ctx context.Context, provider domain.MediumProvider, interval time.Duration, logger *logrus.Logger) {
	logger.Info("Starting session medium monitoring")
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		healthy := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, interval/2)
				err := provider.Ping(pingCtx)
				cancel()

				switch {
				case err != nil && healthy:
					logger.WithError(err).Error("Session medium unreachable")
				case err == nil && !healthy:
					logger.Info("Session medium recovered")
				}
				healthy = err == nil
			}
		}
	}()
}

// internal/middleware/ratelimit.go

package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// limiterIdleTimeout is how long an unused per-IP limiter is kept
const limiterIdleTimeout = 10 * time.Minute

// RateLimit applies a token bucket per client IP
func (m *Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := m.getLimiter(clientIP)

		if !limiter.Allow() {
			if m.counter != nil {
				m.counter.IncrementRateLimited()
			}
			m.logger.WithField("client_ip", clientIP).Warn("Rate limit exceeded")
			c.Header("Retry-After", "1")
			utils.RespondWithError(c, domain.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

func (m *Middleware) getLimiter(clientIP string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.clients[clientIP]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(m.config.RateLimit.RPS), m.config.RateLimit.Burst),
		}
		m.clients[clientIP] = entry
	}
	entry.lastSeen = m.now()

	return entry.limiter
}

// pruneLimiters drops limiters idle for longer than limiterIdleTimeout
func (m *Middleware) pruneLimiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-limiterIdleTimeout)
	removed := 0
	for ip, entry := range m.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
			removed++
		}
	}
	return removed
}

// CleanupLimiters periodically removes idle limiters until ctx is done
func (m *Middleware) CleanupLimiters(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.pruneLimiters(); removed > 0 {
					m.logger.WithField("removed", removed).Debug("Pruned idle rate limiters")
				}
			}
		}
	}()
}

// internal/middleware/middleware.go

package middleware

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/archis1405/Lokal-Assessment/config"
)

// RateLimitCounter records requests rejected by the limiter
type RateLimitCounter interface {
	IncrementRateLimited()
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Middleware struct {
	config  *config.Config
	logger  *logrus.Logger
	counter RateLimitCounter
	clients map[string]*limiterEntry
	mu      sync.Mutex
	now     func() time.Time
}

func NewMiddleware(cfg *config.Config, logger *logrus.Logger, counter RateLimitCounter) *Middleware {
	return &Middleware{
		config:  cfg,
		logger:  logger,
		counter: counter,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

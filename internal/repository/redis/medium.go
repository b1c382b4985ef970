// internal/repository/redis/medium.go

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// Commands is the subset of the go-redis client used by the medium
type Commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ Commands = (*redis.Client)(nil)

// SessionProvider stores session blobs in Redis. Every write refreshes the
// session TTL, so a session lives until it has been idle for ttl.
type SessionProvider struct {
	client  Commands
	keyMgr  *utils.RedisKeyManager
	ttl     time.Duration
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewSessionProvider(client Commands, keyMgr *utils.RedisKeyManager, ttl, timeout time.Duration, logger logrus.FieldLogger) *SessionProvider {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &SessionProvider{
		client:  client,
		keyMgr:  keyMgr,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *SessionProvider) Session(sessionID string) domain.Medium {
	return &sessionMedium{provider: p, sessionID: sessionID}
}

// Ping checks Redis connectivity
func (p *SessionProvider) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Ping(pingCtx).Err(); err != nil {
		metrics.UpdateMediumConnectionStatus(false)
		return fmt.Errorf("%w: %v", domain.ErrMediumUnavailable, err)
	}
	metrics.UpdateMediumConnectionStatus(true)
	return nil
}

// WaitReady pings with a capped Fibonacci backoff until Redis answers,
// attempts run out or ctx is done.
func (p *SessionProvider) WaitReady(ctx context.Context, base time.Duration, maxRetries uint64) error {
	b := retry.NewFibonacci(base)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(maxRetries, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			p.logger.WithError(err).Warn("Redis not ready, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
}

type sessionMedium struct {
	provider  *SessionProvider
	sessionID string
}

func (m *sessionMedium) Get(ctx context.Context, name string) ([]byte, error) {
	p := m.provider
	start := time.Now()
	defer metrics.RecordMediumOperation("get", "redis", start)

	getCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := p.keyMgr.GetKey(m.sessionID, name)
	data, err := p.client.Get(getCtx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("%w: failed to get %s: %v", domain.ErrMediumUnavailable, key, err)
	}

	p.logger.WithField("key", key).Debug("Read session blob from Redis")
	return data, nil
}

func (m *sessionMedium) Set(ctx context.Context, name string, blob []byte) error {
	p := m.provider
	start := time.Now()
	defer metrics.RecordMediumOperation("set", "redis", start)

	setCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	key := p.keyMgr.GetKey(m.sessionID, name)
	if err := p.client.Set(setCtx, key, blob, p.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to set %s: %v", domain.ErrMediumUnavailable, key, err)
	}

	p.logger.WithFields(logrus.Fields{"key": key, "bytes": len(blob)}).Debug("Stored session blob in Redis")
	return nil
}

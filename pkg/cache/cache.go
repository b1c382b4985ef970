// pkg/cache/cache.go

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/logger"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// sessionEntry holds every named blob of one session
type sessionEntry struct {
	blobs      map[string][]byte
	expiresAt  time.Time
	accessedAt time.Time
}

// LocalCache is an in-process session medium. Each session lives for TTL
// after its last access and is dropped by the janitor or on read once stale.
type LocalCache struct {
	sessions      map[string]*sessionEntry
	mu            sync.RWMutex
	maxSize       int
	ttl           time.Duration
	now           func() time.Time
	cleanupTicker *time.Ticker
	done          chan struct{}
	stopOnce      sync.Once
	metrics       *CacheMetrics
}

type CacheMetrics struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}

func (m *CacheMetrics) Hits() int64        { return m.hits.Load() }
func (m *CacheMetrics) Misses() int64      { return m.misses.Load() }
func (m *CacheMetrics) Evictions() int64   { return m.evictions.Load() }
func (m *CacheMetrics) Expirations() int64 { return m.expirations.Load() }

type Options struct {
	MaxSize         int
	TTL             time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

func NewLocalCache(opts Options) *LocalCache {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1000
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cache := &LocalCache{
		sessions:      make(map[string]*sessionEntry),
		maxSize:       opts.MaxSize,
		ttl:           opts.TTL,
		now:           opts.Now,
		cleanupTicker: time.NewTicker(opts.CleanupInterval),
		done:          make(chan struct{}),
		metrics:       &CacheMetrics{},
	}

	go cache.startCleanup()
	return cache
}

// Session returns the medium bound to sessionID
func (c *LocalCache) Session(sessionID string) domain.Medium {
	return &sessionMedium{cache: c, sessionID: sessionID}
}

// Ping always succeeds for the in-process medium
func (c *LocalCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *LocalCache) get(sessionID, name string) ([]byte, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.sessions[sessionID]
	if exists && now.After(entry.expiresAt) {
		delete(c.sessions, sessionID)
		c.metrics.expirations.Add(1)
		exists = false
	}
	if !exists {
		c.metrics.misses.Add(1)
		metrics.CacheMisses.Inc()
		return nil, domain.ErrBlobNotFound
	}

	entry.accessedAt = now
	entry.expiresAt = now.Add(c.ttl)

	blob, ok := entry.blobs[name]
	if !ok {
		c.metrics.misses.Add(1)
		metrics.CacheMisses.Inc()
		return nil, domain.ErrBlobNotFound
	}
	c.metrics.hits.Add(1)
	metrics.CacheHits.Inc()

	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (c *LocalCache) set(sessionID, name string, blob []byte) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.sessions[sessionID]
	if !exists {
		if len(c.sessions) >= c.maxSize {
			c.evictOldest()
		}
		entry = &sessionEntry{blobs: make(map[string][]byte)}
		c.sessions[sessionID] = entry
	}

	stored := make([]byte, len(blob))
	copy(stored, blob)
	entry.blobs[name] = stored
	entry.accessedAt = now
	entry.expiresAt = now.Add(c.ttl)
}

// Len returns the number of live sessions
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *LocalCache) MaxSize() int {
	return c.maxSize
}

// evictOldest must be called with mu held
func (c *LocalCache) evictOldest() {
	var oldestID string
	var oldestAccess time.Time

	for id, entry := range c.sessions {
		if oldestAccess.IsZero() || entry.accessedAt.Before(oldestAccess) {
			oldestID = id
			oldestAccess = entry.accessedAt
		}
	}

	if oldestID != "" {
		delete(c.sessions, oldestID)
		c.metrics.evictions.Add(1)
		metrics.CacheEvictions.Inc()
		logger.WithFields(map[string]interface{}{
			"session": utils.HashString(oldestID),
		}).Debug("Session evicted")
	}
}

func (c *LocalCache) startCleanup() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.cleanup()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) cleanup() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, entry := range c.sessions {
		if now.After(entry.expiresAt) {
			delete(c.sessions, id)
			c.metrics.expirations.Add(1)
			logger.WithFields(map[string]interface{}{
				"session": utils.HashString(id),
			}).Debug("Session expired")
		}
	}
	metrics.UpdateActiveSessions(len(c.sessions))
}

func (c *LocalCache) GetMetrics() *CacheMetrics {
	return c.metrics
}

// Stop ends the cleanup goroutine
func (c *LocalCache) Stop() {
	c.stopOnce.Do(func() {
		c.cleanupTicker.Stop()
		close(c.done)
	})
}

// sessionMedium adapts one session of the cache to domain.Medium
type sessionMedium struct {
	cache     *LocalCache
	sessionID string
}

func (m *sessionMedium) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer metrics.RecordMediumOperation("get", "memory", start)
	return m.cache.get(m.sessionID, name)
}

func (m *sessionMedium) Set(ctx context.Context, name string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer metrics.RecordMediumOperation("set", "memory", start)
	m.cache.set(m.sessionID, name, blob)
	return nil
}

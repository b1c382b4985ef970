// pkg/cache/monitor.go

package cache

import (
	"time"

	"github.com/archis1405/Lokal-Assessment/pkg/logger"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
)

type CacheMonitor struct {
	cache      *LocalCache
	calculator *CacheSizeCalculator
	interval   time.Duration
	done       chan struct{}
}

type CacheStats struct {
	HitRatio         float64   `json:"hit_ratio"`
	Hits             int64     `json:"hits"`
	Misses           int64     `json:"misses"`
	Evictions        int64     `json:"evictions"`
	Expirations      int64     `json:"expirations"`
	CurrentSize      int       `json:"current_size"`
	MaxSize          int       `json:"max_size"`
	MemoryUsageBytes uint64    `json:"memory_usage_bytes"`
	LastUpdated      time.Time `json:"last_updated"`
	Recommendations  []string  `json:"recommendations,omitempty"`
}

func NewCacheMonitor(cache *LocalCache, calculator *CacheSizeCalculator, interval time.Duration) *CacheMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheMonitor{
		cache:      cache,
		calculator: calculator,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

// Start runs the periodic report until Stop is called
func (m *CacheMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.report()
			case <-m.done:
				return
			}
		}
	}()
}

func (m *CacheMonitor) Stop() {
	close(m.done)
}

func (m *CacheMonitor) report() {
	stats := m.GetStats()
	metrics.UpdateActiveSessions(stats.CurrentSize)

	logger.WithFields(map[string]interface{}{
		"hit_ratio": stats.HitRatio,
		"sessions":  stats.CurrentSize,
		"evictions": stats.Evictions,
	}).Info("Session cache performance")

	for _, r := range stats.Recommendations {
		logger.Warn(r)
	}
	m.calculator.MonitorMemoryUsage()
}

func (m *CacheMonitor) GetStats() *CacheStats {
	cm := m.cache.GetMetrics()
	hits, misses := cm.Hits(), cm.Misses()

	hitRatio := float64(0)
	if total := hits + misses; total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	currentSize := m.cache.Len()
	stats := &CacheStats{
		HitRatio:         hitRatio,
		Hits:             hits,
		Misses:           misses,
		Evictions:        cm.Evictions(),
		Expirations:      cm.Expirations(),
		CurrentSize:      currentSize,
		MaxSize:          m.cache.MaxSize(),
		MemoryUsageBytes: m.calculator.EstimatedUsage(currentSize),
		LastUpdated:      time.Now(),
	}
	stats.Recommendations = recommendations(stats)
	return stats
}

func recommendations(s *CacheStats) []string {
	var out []string

	if float64(s.CurrentSize) > float64(s.MaxSize)*0.9 {
		out = append(out,
			"Session cache is approaching capacity. Consider raising session.max_sessions or lowering session.ttl.")
	}

	if s.CurrentSize > 0 && float64(s.Evictions)/float64(s.CurrentSize) > 0.1 {
		out = append(out,
			"High session eviction rate detected. Live sessions are losing their OTP state.")
	}

	return out
}

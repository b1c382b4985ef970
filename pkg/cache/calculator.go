// pkg/cache/calculator.go

package cache

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/archis1405/Lokal-Assessment/pkg/logger"
)

const (
	// A session carries the otp_store blob plus up to 50 analytics events
	defaultSessionSize = 8 * 1024
	maxSessionsCap     = 1000000
	minSessions        = 1000
)

type CacheSizeCalculator struct {
	maxMemoryPercent   float64
	averageSessionSize uint64
	availableMemory    func() (uint64, error)
}

func NewCacheSizeCalculator() *CacheSizeCalculator {
	return &CacheSizeCalculator{
		maxMemoryPercent:   0.2,
		averageSessionSize: defaultSessionSize,
		availableMemory:    virtualMemoryAvailable,
	}
}

func virtualMemoryAvailable() (uint64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return v.Available, nil
}

// CalculateMaxSize returns how many sessions fit in the memory budget
func (c *CacheSizeCalculator) CalculateMaxSize() (int, error) {
	available, err := c.availableMemory()
	if err != nil {
		return 0, err
	}

	maxCacheMemory := uint64(float64(available) * c.maxMemoryPercent)
	maxItems := maxCacheMemory / c.averageSessionSize

	switch {
	case maxItems > maxSessionsCap:
		maxItems = maxSessionsCap
	case maxItems < minSessions:
		maxItems = minSessions
	}

	return int(maxItems), nil
}

// EstimatedUsage approximates the bytes held by n sessions
func (c *CacheSizeCalculator) EstimatedUsage(n int) uint64 {
	return uint64(n) * c.averageSessionSize
}

// MonitorMemoryUsage logs runtime memory statistics
func (c *CacheSizeCalculator) MonitorMemoryUsage() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	logger.Info("Memory stats: ",
		"alloc_mb=", byteToMB(m.Alloc),
		" sys_mb=", byteToMB(m.Sys),
		" num_gc=", m.NumGC,
	)
}

func byteToMB(b uint64) uint64 {
	return b / 1024 / 1024
}

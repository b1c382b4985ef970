// internal/handler/health.go

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/internal/metrics"
	"github.com/archis1405/Lokal-Assessment/pkg/cache"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

type HealthHandler struct {
	BaseHandler
	metrics *metrics.Metrics
	monitor *cache.CacheMonitor
}

// NewHealthHandler builds the health and stats endpoints. monitor is nil
// when sessions live in Redis.
func NewHealthHandler(cfg *config.Config, provider domain.MediumProvider, m *metrics.Metrics, monitor *cache.CacheMonitor) *HealthHandler {
	return &HealthHandler{
		BaseHandler: BaseHandler{
			config:   cfg,
			provider: provider,
		},
		metrics: m,
		monitor: monitor,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status, mediumStatus, code := "UP", "OK", http.StatusOK
	if err := h.provider.Ping(c.Request.Context()); err != nil {
		status, mediumStatus, code = "DOWN", "UNAVAILABLE", http.StatusServiceUnavailable
	}

	healthInfo := gin.H{
		"status":        status,
		"medium":        h.config.Session.Medium,
		"medium_status": mediumStatus,
		"version":       "1.0.0",
		"timestamp":     utils.GetCurrentTimestamp(),
		"mode":          h.config.Server.Mode,
	}

	// Add config information in debug/test mode
	if h.config.IsDevelopment() {
		healthInfo["config"] = gin.H{
			"otp": gin.H{
				"expiry_ms":    h.config.OTP.ExpiryMS,
				"length":       h.config.OTP.Length,
				"max_attempts": h.config.OTP.MaxAttempts,
			},
			"session": gin.H{
				"ttl":         h.config.Session.TTL.String(),
				"cookie_name": h.config.Session.CookieName,
			},
			"redis": gin.H{
				"host":       h.config.Redis.Host,
				"port":       h.config.Redis.Port,
				"db":         h.config.Redis.DB,
				"key_prefix": h.config.Redis.KeyPrefix,
				"hash_keys":  h.config.Redis.HashKeys,
			},
		}
	}

	utils.RespondWithSuccess(c, code, "SERVICE_HEALTH", healthInfo)
}

// Stats reports the in-process counters and, for the memory medium, the
// session cache statistics
func (h *HealthHandler) Stats(c *gin.Context) {
	info := gin.H{
		"otp": h.metrics.GetStats(),
	}
	if h.monitor != nil {
		info["cache"] = h.monitor.GetStats()
	}

	utils.RespondWithSuccess(c, http.StatusOK, "SERVICE_STATS", info)
}

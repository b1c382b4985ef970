// cmd/server/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/auth"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/internal/handler"
	"github.com/archis1405/Lokal-Assessment/internal/metrics"
	"github.com/archis1405/Lokal-Assessment/internal/middleware"
	"github.com/archis1405/Lokal-Assessment/internal/repository/redis"
	"github.com/archis1405/Lokal-Assessment/pkg/cache"
	"github.com/archis1405/Lokal-Assessment/pkg/clock"
	"github.com/archis1405/Lokal-Assessment/pkg/logger"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

const (
	mediumMonitorInterval = 10 * time.Second
	limiterCleanup        = time.Minute
	statsLogInterval      = 5 * time.Minute
	redisStartupRetries   = 8
)

var log *logrus.Logger

func main() {
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	log = logger.InitLogger(&logger.Config{
		Mode:       cfg.Server.Mode,
		JSONFormat: cfg.Server.Mode == config.ModeRelease,
	})
	log.WithFields(logrus.Fields{
		"mode":   cfg.Server.Mode,
		"medium": cfg.Session.Medium,
	}).Info("Starting OTP service...")

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	provider, monitor, closeMedium := initMedium(cfg)
	defer closeMedium()

	clk := clock.New()
	appMetrics := metrics.NewMetrics(log)
	sink := analytics.NewMultiSink(log,
		analytics.NewLogrusSink(log),
		analytics.PrometheusSink{},
		appMetrics,
	)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// development only, config validation requires a secret in release
		secret = uuid.NewString()
		log.Warn("No JWT secret configured, using an ephemeral one")
	}
	tokens := auth.NewTokenManager(secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, clk, log)

	m := middleware.NewMiddleware(cfg, log, appMetrics)
	m.CleanupLimiters(ctx, limiterCleanup)
	middleware.MonitorMedium(ctx, provider, mediumMonitorInterval, log)
	go logStats(ctx, appMetrics)

	router := handler.NewRouter(handler.Dependencies{
		Config:     cfg,
		Provider:   provider,
		Sink:       sink,
		Tokens:     tokens,
		Metrics:    appMetrics,
		Clock:      clk,
		Logger:     log,
		Middleware: m,
		Monitor:    monitor,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.Timeout.Read) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.Timeout.Write) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.Timeout.Idle) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.Timeout.ReadHeader) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server starting on ", server.Addr)
		var err error
		if cfg.Server.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	appMetrics.LogMetrics()
	log.Info("Server exited successfully")
}

// initMedium builds the session medium selected by config. The returned
// monitor is nil for Redis.
func initMedium(cfg *config.Config) (domain.MediumProvider, *cache.CacheMonitor, func()) {
	if cfg.Session.Medium == config.MediumRedis {
		return initRedisMedium(cfg)
	}

	calculator := cache.NewCacheSizeCalculator()
	maxSize := cfg.Session.MaxSessions
	if maxSize == 0 {
		size, err := calculator.CalculateMaxSize()
		if err != nil {
			log.WithError(err).Warn("Failed to size session cache from host memory, using default")
		}
		maxSize = size
	}

	local := cache.NewLocalCache(cache.Options{
		MaxSize:         maxSize,
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
	})
	log.WithFields(logrus.Fields{
		"max_sessions":    local.MaxSize(),
		"estimated_bytes": calculator.EstimatedUsage(local.MaxSize()),
	}).Info("In-memory session medium ready")

	monitor := cache.NewCacheMonitor(local, calculator, time.Minute)
	monitor.Start()

	return local, monitor, func() {
		monitor.Stop()
		local.Stop()
	}
}

func initRedisMedium(cfg *config.Config) (domain.MediumProvider, *cache.CacheMonitor, func()) {
	timeout := time.Duration(cfg.Redis.Timeout) * time.Second
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	keyMgr := utils.NewRedisKeyManager(utils.RedisKeyConfig{
		HashKeys:  cfg.Redis.HashKeys,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	provider := redis.NewSessionProvider(rdb, keyMgr, cfg.Session.TTL, timeout, log)

	// The service still starts and reports 503 until Redis is up
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := provider.WaitReady(ctx, 200*time.Millisecond, redisStartupRetries); err != nil {
		log.Error("Failed to connect to Redis: ", err)
	} else {
		log.Info("Successfully connected to Redis")
	}

	return provider, nil, func() {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Redis client")
		}
	}
}

func logStats(ctx context.Context, m *metrics.Metrics) {
	ticker := time.NewTicker(statsLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.LogMetrics()
		}
	}
}

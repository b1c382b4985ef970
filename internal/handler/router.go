// internal/handler/router.go

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/auth"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/internal/metrics"
	"github.com/archis1405/Lokal-Assessment/internal/middleware"
	"github.com/archis1405/Lokal-Assessment/pkg/cache"
)

// Dependencies is everything the HTTP surface needs
type Dependencies struct {
	Config     *config.Config
	Provider   domain.MediumProvider
	Sink       *analytics.MultiSink
	Tokens     *auth.TokenManager
	Metrics    *metrics.Metrics
	Clock      domain.Clock
	Logger     *logrus.Logger
	Middleware *middleware.Middleware
	Monitor    *cache.CacheMonitor
}

// NewRouter wires handlers and middleware into a gin engine
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	m := deps.Middleware
	router.Use(m.Logger())
	router.Use(m.Security())
	router.Use(middleware.Metrics())

	health := NewHealthHandler(deps.Config, deps.Provider, deps.Metrics, deps.Monitor)
	router.GET("/health", health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	api.Use(m.RateLimit())
	api.GET("/stats", health.Stats)

	scoped := api.Group("/")
	scoped.Use(m.Session())

	otp := NewOTPHandler(deps.Config, deps.Provider, deps.Sink, deps.Tokens, deps.Clock, deps.Logger)
	scoped.POST("/otp", otp.GenerateOTP)
	scoped.DELETE("/otp", otp.InvalidateOTP)
	scoped.POST("/otp/verify", otp.VerifyOTP)
	scoped.POST("/otp/resend", otp.ResendOTP)
	scoped.GET("/otp/remaining", otp.RemainingTime)
	scoped.GET("/otp/countdown", otp.Countdown)

	sessions := NewSessionHandler(deps.Config, deps.Provider, deps.Sink, deps.Tokens, deps.Clock, deps.Logger)
	scoped.GET("/analytics", sessions.History)

	authed := scoped.Group("/session")
	authed.Use(deps.Tokens.Middleware(middleware.SessionID))
	authed.GET("", sessions.Me)
	authed.POST("/logout", sessions.Logout)

	return router
}

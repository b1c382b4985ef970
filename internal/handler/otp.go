// internal/handler/otp.go

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/auth"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/internal/repository/session"
	"github.com/archis1405/Lokal-Assessment/internal/service"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type OTPHandler struct {
	BaseHandler
	tokens       *auth.TokenManager
	clock        domain.Clock
	random       domain.RandomSource
	upgrader     websocket.Upgrader
	tickInterval time.Duration
}

func NewOTPHandler(cfg *config.Config, provider domain.MediumProvider, sink *analytics.MultiSink,
	tokens *auth.TokenManager, clock domain.Clock, logger *logrus.Logger) *OTPHandler {
	return &OTPHandler{
		BaseHandler: BaseHandler{
			config:   cfg,
			provider: provider,
			sink:     sink,
			logger:   logger,
		},
		tokens: tokens,
		clock:  clock,
		random: utils.GlobalRandom{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		tickInterval: time.Second,
	}
}

// generation holds the code revealed by the diagnostic hook in test mode
type generation struct {
	code string
}

// manager builds the lifecycle manager for one request's session
func (h *OTPHandler) manager(medium domain.Medium, gen *generation) *service.OTPManager {
	opts := []service.Option{
		service.WithClock(h.clock),
		service.WithRandom(h.random),
		service.WithSink(h.sinkFor(medium)),
		service.WithLogger(h.logger),
	}

	if h.config.IsDevelopment() {
		opts = append(opts, service.WithDiagnostic(func(identity, code string) {
			h.logger.WithField("email", identity).Infof("[DEV] OTP for %s: %s", identity, code)
			if gen != nil {
				gen.code = code
			}
		}))
	}

	store := session.NewOTPStore(medium, h.logger)
	return service.NewOTPManager(store, h.config.Settings(), opts...)
}

func (h *OTPHandler) bindEmail(c *gin.Context) (string, bool) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidRequest)
		return "", false
	}

	email, err := utils.NormalizeEmail(req.Email)
	if err != nil {
		h.handleError(c, err)
		return "", false
	}
	return email, true
}

func (h *OTPHandler) queryEmail(c *gin.Context) (string, bool) {
	email, err := utils.NormalizeEmail(c.Query("email"))
	if err != nil {
		h.handleError(c, err)
		return "", false
	}
	return email, true
}

// GenerateOTP handles OTP generation requests
func (h *OTPHandler) GenerateOTP(c *gin.Context) {
	h.issue(c, "OTP_GENERATED", func(m *service.OTPManager, email string) {
		m.Generate(c.Request.Context(), email)
	})
}

// ResendOTP replaces any active code with a fresh one
func (h *OTPHandler) ResendOTP(c *gin.Context) {
	h.issue(c, "OTP_RESENT", func(m *service.OTPManager, email string) {
		m.Resend(c.Request.Context(), email)
	})
}

func (h *OTPHandler) issue(c *gin.Context, message string, run func(*service.OTPManager, string)) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}

	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	gen := &generation{}
	m := h.manager(medium, gen)
	run(m, email)

	info := gin.H{
		"email":      email,
		"expires_in": m.RemainingSeconds(c.Request.Context(), email),
	}
	if h.config.Server.Mode == config.ModeTest && gen.code != "" {
		info["otp"] = gen.code
	}

	utils.RespondWithSuccess(c, http.StatusOK, message, info)
}

// VerifyOTP checks a code and mints a session token on success
func (h *OTPHandler) VerifyOTP(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidRequest)
		return
	}

	email, err := utils.NormalizeEmail(req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	sessionID, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result := h.manager(medium, nil).Validate(c.Request.Context(), email, req.Code)
	if !result.Success {
		h.logger.WithFields(logrus.Fields{
			"email":  email,
			"reason": result.Reason,
		}).Info("OTP verification failed")

		c.JSON(http.StatusUnauthorized, utils.StandardResponse{
			Status:  http.StatusUnauthorized,
			Message: "OTP_VERIFICATION_FAILED",
			Info:    result,
		})
		return
	}

	token, expiresAt, err := h.tokens.Issue(email, sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "OTP_VERIFIED", gin.H{
		"email":      email,
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}

// InvalidateOTP drops the active code for an email
func (h *OTPHandler) InvalidateOTP(c *gin.Context) {
	email, ok := h.queryEmail(c)
	if !ok {
		return
	}

	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.manager(medium, nil).Invalidate(c.Request.Context(), email)
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_INVALIDATED", gin.H{"email": email})
}

// RemainingTime reports the whole seconds left on the active code
func (h *OTPHandler) RemainingTime(c *gin.Context) {
	email, ok := h.queryEmail(c)
	if !ok {
		return
	}

	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	remaining := h.manager(medium, nil).RemainingSeconds(c.Request.Context(), email)
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_REMAINING", gin.H{
		"email":             email,
		"remaining_seconds": remaining,
	})
}

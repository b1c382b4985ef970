// internal/handler/session.go

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/auth"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// SessionHandler serves the signed-in side of the flow
type SessionHandler struct {
	BaseHandler
	tokens *auth.TokenManager
	clock  domain.Clock
}

func NewSessionHandler(cfg *config.Config, provider domain.MediumProvider, sink *analytics.MultiSink,
	tokens *auth.TokenManager, clock domain.Clock, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: BaseHandler{
			config:   cfg,
			provider: provider,
			sink:     sink,
			logger:   logger,
		},
		tokens: tokens,
		clock:  clock,
	}
}

// Me describes the signed-in user
func (h *SessionHandler) Me(c *gin.Context) {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "SESSION_ACTIVE", gin.H{
		"email":                    claims.Email,
		"logged_in_at":             claims.LoginTime().Unix(),
		"session_duration_seconds": int64(h.tokens.SessionDuration(claims).Seconds()),
	})
}

// Logout records how long the user stayed signed in. Tokens are stateless,
// so the client is expected to drop its copy.
func (h *SessionHandler) Logout(c *gin.Context) {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	duration := h.tokens.SessionDuration(claims)
	h.sinkFor(medium).Emit(c.Request.Context(), analytics.Logout(claims.Email, duration, h.clock.Now()))

	utils.RespondWithSuccess(c, http.StatusOK, "LOGGED_OUT", gin.H{
		"email":                    claims.Email,
		"session_duration_seconds": int64(duration.Seconds()),
	})
}

// History returns the analytics log persisted in the caller's session
func (h *SessionHandler) History(c *gin.Context) {
	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	events, err := analytics.ReadHistory(c.Request.Context(), medium)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "ANALYTICS_HISTORY", gin.H{
		"count":  len(events),
		"events": events,
	})
}

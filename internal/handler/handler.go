// internal/handler/handler.go

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/internal/middleware"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// BaseHandler contains common handler functionality: resolving the
// caller's session medium and the event sinks bound to it.
type BaseHandler struct {
	config   *config.Config
	provider domain.MediumProvider
	sink     *analytics.MultiSink
	logger   *logrus.Logger
}

// handleError standardizes error responses
func (h *BaseHandler) handleError(c *gin.Context, err error) {
	utils.RespondWithError(c, err)
}

// session returns the medium of the request's session
func (h *BaseHandler) session(c *gin.Context) (string, domain.Medium, error) {
	id, err := middleware.SessionID(c)
	if err != nil {
		return "", nil, err
	}
	return id, h.provider.Session(id), nil
}

// sinkFor adds the per-session analytics history to the shared sinks
func (h *BaseHandler) sinkFor(medium domain.Medium) domain.EventSink {
	return h.sink.With(analytics.NewHistorySink(medium, h.config.Analytics.HistorySize, h.logger))
}

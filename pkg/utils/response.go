// pkg/utils/response.go

package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/logger"
)

// APIError represents a standard error response
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardResponse represents a standard success response
type StandardResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Info    interface{} `json:"info,omitempty"`
}

// errorTable maps sentinel errors to HTTP responses
var errorTable = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidRequest, http.StatusBadRequest},
	{domain.ErrInvalidEmail, http.StatusBadRequest},
	{domain.ErrInvalidSettings, http.StatusBadRequest},
	{domain.ErrSessionMissing, http.StatusBadRequest},
	{domain.ErrTokenInvalid, http.StatusUnauthorized},
	{domain.ErrRateLimitExceeded, http.StatusTooManyRequests},
	{domain.ErrMediumUnavailable, http.StatusServiceUnavailable},
}

// LookupError resolves err against the sentinel table
func LookupError(err error) (APIError, bool) {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			code := entry.err.Error()
			return APIError{
				Status:  entry.status,
				Message: domain.ErrorMessages[code],
				Code:    code,
			}, true
		}
	}
	return APIError{}, false
}

// RespondWithError sends a JSON error response
func RespondWithError(c *gin.Context, err error) {
	if apiErr, exists := LookupError(err); exists {
		if apiErr.Status >= 500 {
			logger.Error("System error occurred: ", err)
		} else {
			logger.Warn("Request error: ", err)
		}
		c.AbortWithStatusJSON(apiErr.Status, apiErr)
		return
	}

	logger.Error("Unknown error occurred: ", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Code:    "INTERNAL_SERVER_ERROR",
	})
}

// RespondWithSuccess sends a JSON success response
func RespondWithSuccess(c *gin.Context, status int, message string, info interface{}) {
	c.JSON(status, StandardResponse{
		Status:  status,
		Message: message,
		Info:    info,
	})
}

func GetCurrentTimestamp() int64 {
	return time.Now().Unix()
}

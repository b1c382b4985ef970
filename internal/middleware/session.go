// internal/middleware/session.go

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// SessionIDKey holds the session id on the gin context
const SessionIDKey = "session_id"

// Session binds every request to a session id carried in a cookie,
// issuing a fresh uuid when the cookie is absent or malformed.
func (m *Middleware) Session() gin.HandlerFunc {
	cfg := m.config.Session
	maxAge := int(cfg.TTL.Seconds())

	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			m.logger.WithField("client_ip", c.ClientIP()).Debug("Started new session")
		}

		// refresh on every request so the cookie follows the sliding medium TTL
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, maxAge, "/", "", m.config.Server.TLS.Enabled, true)

		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the id bound by Session
func SessionID(c *gin.Context) (string, error) {
	id := c.GetString(SessionIDKey)
	if id == "" {
		return "", domain.ErrSessionMissing
	}
	return id, nil
}

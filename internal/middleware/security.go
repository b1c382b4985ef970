// internal/middleware/security.go

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Security adds security headers to the response
func (m *Middleware) Security() gin.HandlerFunc {
	csp := strings.Join([]string{
		"default-src 'self'",
		"connect-src 'self' ws: wss:",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", csp)
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")

		// HSTS only when served over TLS
		if m.config.Server.TLS.Enabled {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// OTP responses must never be cached
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")

		c.Next()
	}
}

// internal/auth/token.go

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

const (
	// ContextClaimsKey holds *SessionClaims on an authenticated request
	ContextClaimsKey = "session_claims"

	DefaultTokenTTL = time.Hour
	DefaultIssuer   = "otp-service"
)

// SessionClaims represents the signed-in state minted after a successful
// OTP validation
type SessionClaims struct {
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// LoginTime is when the session was signed in
func (c *SessionClaims) LoginTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// TokenManager mints and verifies HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  domain.Clock
	logger logrus.FieldLogger
}

func NewTokenManager(secret string, ttl time.Duration, issuer string, clock domain.Clock, logger logrus.FieldLogger) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		clock:  clock,
		logger: logger,
	}
}

// Issue signs a token for email bound to sessionID
func (tm *TokenManager) Issue(email, sessionID string) (string, time.Time, error) {
	now := tm.clock.Now()
	expiresAt := now.Add(tm.ttl)

	claims := SessionClaims{
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, issuer and expiry. Time based claims are
// checked against the manager's clock.
func (tm *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	now := tm.clock.Now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: token is expired", domain.ErrTokenInvalid)
	}
	if !claims.VerifyIssuedAt(now, false) || !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("%w: token used before issued", domain.ErrTokenInvalid)
	}
	if !claims.VerifyIssuer(tm.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrTokenInvalid, claims.Issuer)
	}
	return claims, nil
}

// SessionDuration is the time elapsed since the token was issued
func (tm *TokenManager) SessionDuration(claims *SessionClaims) time.Duration {
	login := claims.LoginTime()
	if login.IsZero() {
		return 0
	}
	d := tm.clock.Now().Sub(login)
	if d < 0 {
		return 0
	}
	return d
}

// SessionResolver returns the session id bound to a request
type SessionResolver func(c *gin.Context) (string, error)

// Middleware rejects requests without a valid bearer token. With a non-nil
// resolver the token's sid must also match the request's session.
func (tm *TokenManager) Middleware(session SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			utils.RespondWithError(c, domain.ErrTokenInvalid)
			return
		}

		claims, err := tm.Parse(tokenString)
		if err != nil {
			tm.logger.WithError(err).WithField("ip", c.ClientIP()).Warn("Rejected session token")
			utils.RespondWithError(c, err)
			return
		}

		if session != nil {
			id, err := session(c)
			if err != nil || id != claims.SessionID {
				tm.logger.WithField("ip", c.ClientIP()).Warn("Session token bound to another session")
				utils.RespondWithError(c, fmt.Errorf("%w: session mismatch", domain.ErrTokenInvalid))
				return
			}
		}

		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// ExtractToken reads the bearer token from the Authorization header
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ClaimsFromContext returns the claims set by Middleware
func ClaimsFromContext(c *gin.Context) (*SessionClaims, error) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, errors.New("no session claims in context")
	}
	claims, ok := v.(*SessionClaims)
	if !ok {
		return nil, errors.New("unexpected session claims type")
	}
	return claims, nil
}

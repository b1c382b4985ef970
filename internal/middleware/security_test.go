package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/archis1405/Lokal-Assessment/config"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// MockMediumProvider for middleware tests
type MockMediumProvider struct {
	mock.Mock
}

var _ domain.MediumProvider = (*MockMediumProvider)(nil)

func (m *MockMediumProvider) Session(id string) domain.Medium {
	args := m.Called(id)
	return args.Get(0).(domain.Medium)
}

func (m *MockMediumProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type countingLimiter struct {
	rejected int
}

func (c *countingLimiter) IncrementRateLimited() { c.rejected++ }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = config.ModeTest
	cfg.Session.CookieName = "otp_session"
	cfg.Session.TTL = 30 * time.Minute
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 2
	return cfg
}

func setupMiddleware(cfg *config.Config) (*Middleware, *logtest.Hook, *countingLimiter) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	counter := &countingLimiter{}
	return NewMiddleware(cfg, logger, counter), hook, counter
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _, _ := setupMiddleware(testConfig())

	r := gin.New()
	r.Use(m.Security())
	r.GET("/test", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	// Check security headers
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store, max-age=0", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Contains(t, csp, "ws: wss:")

	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
}

func TestSecurityHeadersWithTLS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.TLS.Enabled = true
	m, _, _ := setupMiddleware(cfg)

	r := gin.New()
	r.Use(m.Security())
	r.GET("/test", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, hook, counter := setupMiddleware(testConfig())

	r := gin.New()
	r.Use(m.RateLimit())
	r.GET("/test", okHandler)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// burst of 2
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), domain.ErrRateLimitExceeded.Error())
	assert.Equal(t, 1, counter.rejected)
	assert.Equal(t, "Rate limit exceeded", hook.LastEntry().Message)

	// other clients keep their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestPruneLimiters(t *testing.T) {
	m, _, _ := setupMiddleware(testConfig())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.getLimiter("10.0.0.1")
	now = now.Add(limiterIdleTimeout / 2)
	m.getLimiter("10.0.0.2")
	now = now.Add(limiterIdleTimeout/2 + time.Second)

	assert.Equal(t, 1, m.pruneLimiters())
	assert.Len(t, m.clients, 1)
	assert.Contains(t, m.clients, "10.0.0.2")
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, _, _ := setupMiddleware(testConfig())

	r := gin.New()
	r.Use(m.Session())
	r.GET("/test", func(c *gin.Context) {
		id, err := SessionID(c)
		require.NoError(t, err)
		c.String(http.StatusOK, id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "otp_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1800, cookies[0].MaxAge)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.Equal(t, cookies[0].Value, w.Body.String())

	// same cookie, same session
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, cookies[0].Value, w.Body.String())

	// forged cookie is replaced
	req = httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "otp_session", Value: "../../etc"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "../../etc", w.Body.String())
	assert.NoError(t, uuid.Validate(w.Body.String()))
}

func TestSessionID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := SessionID(c)
	assert.ErrorIs(t, err, domain.ErrSessionMissing)
}

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, hook, _ := setupMiddleware(testConfig())

	r := gin.New()
	r.Use(m.Logger())
	r.GET("/health", okHandler)
	r.GET("/ok", okHandler)
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path  string
		level logrus.Level
		msg   string
	}{
		{"/ok?email=a@x.com", logrus.InfoLevel, "Request processed"},
		{"/bad", logrus.WarnLevel, "Request warning"},
		{"/boom", logrus.ErrorLevel, "Request failed"},
	}

	for _, tt := range tests {
		hook.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tt.path, nil))

		entry := hook.LastEntry()
		require.NotNil(t, entry, tt.path)
		assert.Equal(t, tt.level, entry.Level)
		assert.Equal(t, tt.msg, entry.Message)
		assert.NotContains(t, entry.Data["path"], "email")
	}

	hook.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))
	assert.Empty(t, hook.AllEntries())
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/test", okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMonitorMedium(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	provider := &MockMediumProvider{}
	provider.On("Ping", mock.Anything).Return(domain.ErrMediumUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	MonitorMedium(ctx, provider, 10*time.Millisecond, logger)

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "Session medium unreachable" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func BenchmarkSecurityHeaders(b *testing.B) {
	gin.SetMode(gin.TestMode)
	m, _, _ := setupMiddleware(testConfig())

	r := gin.New()
	r.Use(m.Security())
	r.GET("/test", okHandler)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		r.ServeHTTP(w, req)
	}
}

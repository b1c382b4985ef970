package metrics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// Stats represents a snapshot of current metrics
type Stats struct {
	OTPGenerated   int64 `json:"otp_generated"`
	OTPVerified    int64 `json:"otp_verified"`
	OTPNoOTP       int64 `json:"otp_no_otp"`
	OTPExpired     int64 `json:"otp_expired"`
	OTPWrongCode   int64 `json:"otp_wrong_code"`
	OTPMaxAttempts int64 `json:"otp_max_attempts"`
	Logouts        int64 `json:"logouts"`
	RateLimited    int64 `json:"rate_limited"`
	TotalRequests  int64 `json:"total_requests"`
	StartTime      int64 `json:"start_time"`
	UptimeSeconds  int64 `json:"uptime_seconds"`
}

// Metrics holds in-process counters. It is also an event sink for the
// lifecycle events.
type Metrics struct {
	otpGenerated   atomic.Int64
	otpVerified    atomic.Int64
	otpNoOTP       atomic.Int64
	otpExpired     atomic.Int64
	otpWrongCode   atomic.Int64
	otpMaxAttempts atomic.Int64
	logouts        atomic.Int64
	rateLimited    atomic.Int64
	totalRequests  atomic.Int64
	startTime      time.Time
	logger         logrus.FieldLogger
}

// NewMetrics creates a new metrics instance
func NewMetrics(logger logrus.FieldLogger) *Metrics {
	return &Metrics{
		startTime: time.Now(),
		logger:    logger,
	}
}

// Emit counts lifecycle events by name and failure reason
func (m *Metrics) Emit(_ context.Context, event domain.Event) {
	switch event.Name {
	case analytics.EventOTPGenerated:
		m.otpGenerated.Add(1)
		m.totalRequests.Add(1)
	case analytics.EventOTPValidationSuccess:
		m.otpVerified.Add(1)
		m.totalRequests.Add(1)
	case analytics.EventOTPValidationFailure:
		m.totalRequests.Add(1)
		reason, _ := event.Params["reason"].(string)
		switch domain.Reason(reason) {
		case domain.ReasonNoOTP:
			m.otpNoOTP.Add(1)
		case domain.ReasonExpired:
			m.otpExpired.Add(1)
		case domain.ReasonWrongCode:
			m.otpWrongCode.Add(1)
		case domain.ReasonMaxAttempts:
			m.otpMaxAttempts.Add(1)
		}
	case analytics.EventLogout:
		m.logouts.Add(1)
	}
}

// IncrementRateLimited increments the rate limited counter
func (m *Metrics) IncrementRateLimited() {
	m.rateLimited.Add(1)
}

// GetStats returns current metrics as Stats struct
func (m *Metrics) GetStats() Stats {
	return Stats{
		OTPGenerated:   m.otpGenerated.Load(),
		OTPVerified:    m.otpVerified.Load(),
		OTPNoOTP:       m.otpNoOTP.Load(),
		OTPExpired:     m.otpExpired.Load(),
		OTPWrongCode:   m.otpWrongCode.Load(),
		OTPMaxAttempts: m.otpMaxAttempts.Load(),
		Logouts:        m.logouts.Load(),
		RateLimited:    m.rateLimited.Load(),
		TotalRequests:  m.totalRequests.Load(),
		StartTime:      m.startTime.Unix(),
		UptimeSeconds:  int64(m.GetUptime() / time.Second),
	}
}

// GetUptime returns the uptime duration
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.startTime)
}

// LogMetrics logs current metrics
func (m *Metrics) LogMetrics() {
	s := m.GetStats()
	m.logger.WithFields(logrus.Fields{
		"otp_generated":    s.OTPGenerated,
		"otp_verified":     s.OTPVerified,
		"otp_expired":      s.OTPExpired,
		"otp_wrong_code":   s.OTPWrongCode,
		"otp_max_attempts": s.OTPMaxAttempts,
		"rate_limited":     s.RateLimited,
		"uptime_seconds":   s.UptimeSeconds,
	}).Info("Application metrics")
}

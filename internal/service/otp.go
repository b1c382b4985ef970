// internal/service/otp.go

package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/analytics"
	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/clock"
	"github.com/archis1405/Lokal-Assessment/pkg/logger"
	"github.com/archis1405/Lokal-Assessment/pkg/utils"
)

// DiagnosticFunc receives a freshly generated code. It is the only way the
// code leaves the manager and must only be installed in development modes.
type DiagnosticFunc func(identity, code string)

// OTPManager owns the OTP lifecycle of one session: generation, expiry,
// attempt counting and lockout. State is re-derived from the store and the
// clock on every call. Calls for the same identity must not overlap.
type OTPManager struct {
	store      domain.Store
	settings   domain.Settings
	clock      domain.Clock
	random     domain.RandomSource
	sink       domain.EventSink
	logger     logrus.FieldLogger
	diagnostic DiagnosticFunc
}

type Option func(*OTPManager)

func WithClock(c domain.Clock) Option {
	return func(m *OTPManager) { m.clock = c }
}

func WithRandom(r domain.RandomSource) Option {
	return func(m *OTPManager) { m.random = r }
}

func WithSink(s domain.EventSink) Option {
	return func(m *OTPManager) { m.sink = s }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(m *OTPManager) { m.logger = l }
}

func WithDiagnostic(fn DiagnosticFunc) Option {
	return func(m *OTPManager) { m.diagnostic = fn }
}

func NewOTPManager(store domain.Store, settings domain.Settings, opts ...Option) *OTPManager {
	m := &OTPManager{
		store:    store,
		settings: settings,
		clock:    clock.New(),
		random:   utils.GlobalRandom{},
		sink:     analytics.NopSink{},
		logger:   logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *OTPManager) Settings() domain.Settings {
	return m.settings
}

// Generate issues a new code for identity, replacing any previous record
// together with its attempt count.
func (m *OTPManager) Generate(ctx context.Context, identity string) {
	code := utils.GenerateNumericCode(m.random, m.settings.CodeLength)
	now := m.clock.Now().Truncate(time.Millisecond)

	m.store.Put(ctx, identity, domain.Record{
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(m.settings.Expiry),
		Attempts:  0,
	})

	if m.diagnostic != nil {
		m.diagnostic(identity, code)
	}

	m.logger.WithFields(logrus.Fields{
		"email":  identity,
		"length": len(code),
	}).Debug("OTP generated")
	m.sink.Emit(ctx, analytics.Generated(identity, len(code), now))
}

// Validate checks candidate against the active record. Every call that
// reaches the comparison consumes an attempt, right or wrong.
func (m *OTPManager) Validate(ctx context.Context, identity, candidate string) domain.ValidationResult {
	rec, ok := m.store.Get(ctx, identity)
	now := m.clock.Now()

	if !ok {
		return m.fail(ctx, identity, domain.ReasonNoOTP, nil, now)
	}

	if rec.Expired(now) {
		m.store.Delete(ctx, identity)
		return m.fail(ctx, identity, domain.ReasonExpired, nil, now)
	}

	if rec.Attempts >= m.settings.MaxAttempts {
		attempts := rec.Attempts
		return m.fail(ctx, identity, domain.ReasonMaxAttempts, &attempts, now)
	}

	rec.Attempts++
	m.store.Put(ctx, identity, rec)

	if candidate == rec.Code {
		m.store.Delete(ctx, identity)
		m.sink.Emit(ctx, analytics.ValidationSuccess(identity, now))
		return domain.ValidationResult{Success: true}
	}

	attempts := rec.Attempts
	result := m.fail(ctx, identity, domain.ReasonWrongCode, &attempts, now)
	remaining := m.settings.MaxAttempts - rec.Attempts
	result.Remaining = &remaining
	return result
}

func (m *OTPManager) fail(ctx context.Context, identity string, reason domain.Reason, attempts *int, now time.Time) domain.ValidationResult {
	m.sink.Emit(ctx, analytics.ValidationFailure(identity, reason, attempts, now))
	return domain.ValidationResult{Success: false, Reason: reason}
}

// Invalidate removes any record for identity. It is idempotent.
func (m *OTPManager) Invalidate(ctx context.Context, identity string) {
	m.store.Delete(ctx, identity)
}

// Resend invalidates the current code and issues a new one
func (m *OTPManager) Resend(ctx context.Context, identity string) {
	m.Invalidate(ctx, identity)
	m.Generate(ctx, identity)
}

// RemainingSeconds is the whole seconds left before expiry, rounded up.
// It never deletes: an expired record stays until the next Validate or
// Invalidate.
func (m *OTPManager) RemainingSeconds(ctx context.Context, identity string) int {
	rec, ok := m.store.Get(ctx, identity)
	if !ok {
		return 0
	}

	left := rec.RemainingMillis(m.clock.Now())
	return int((left + 999) / 1000)
}

// internal/domain/otp.go

package domain

import "time"

// Default lifecycle settings
const (
	DefaultExpiry      = 60 * time.Second
	DefaultCodeLength  = 6
	DefaultMaxAttempts = 3
)

// Record is the single active OTP kept for an identity
type Record struct {
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Attempts  int
}

// Expired reports whether the record is past its expiry at now. Times are
// compared in milliseconds, the precision records are persisted with.
func (r Record) Expired(now time.Time) bool {
	return now.UnixMilli() > r.ExpiresAt.UnixMilli()
}

// RemainingMillis is the time left before expiry, never negative
func (r Record) RemainingMillis(now time.Time) int64 {
	left := r.ExpiresAt.UnixMilli() - now.UnixMilli()
	if left < 0 {
		return 0
	}
	return left
}

// Reason tags a failed validation
type Reason string

const (
	ReasonNoOTP       Reason = "no_otp"
	ReasonExpired     Reason = "expired"
	ReasonMaxAttempts Reason = "max_attempts"
	ReasonWrongCode   Reason = "wrong_code"
)

// ValidationResult is the outcome of a validation. Remaining is only set
// for ReasonWrongCode.
type ValidationResult struct {
	Success   bool   `json:"success"`
	Reason    Reason `json:"reason,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// Settings are the overridable lifecycle constants
type Settings struct {
	Expiry      time.Duration
	CodeLength  int
	MaxAttempts int
}

// DefaultSettings returns the stock 60s / 6 digits / 3 attempts policy
func DefaultSettings() Settings {
	return Settings{
		Expiry:      DefaultExpiry,
		CodeLength:  DefaultCodeLength,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Event is a fire-and-forget notification for the observability collaborator
type Event struct {
	Name      string                 `json:"event"`
	Params    map[string]interface{} `json:"params"`
	Timestamp time.Time              `json:"timestamp"`
}

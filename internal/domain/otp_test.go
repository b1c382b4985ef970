package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordExpired(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{CreatedAt: base, ExpiresAt: base.Add(time.Minute)}

	assert.False(t, rec.Expired(base))
	assert.False(t, rec.Expired(base.Add(time.Minute)), "expiry instant itself is still valid")
	assert.True(t, rec.Expired(base.Add(time.Minute+time.Millisecond)))
}

func TestRecordExpired_MillisecondPrecision(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{ExpiresAt: base.Add(time.Minute)}

	assert.False(t, rec.Expired(base.Add(time.Minute+999*time.Microsecond)))
	assert.True(t, rec.Expired(base.Add(time.Minute+time.Millisecond)))
}

func TestRecordRemainingMillis(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{ExpiresAt: base.Add(time.Minute)}

	assert.Equal(t, int64(60000), rec.RemainingMillis(base))
	assert.Equal(t, int64(59999), rec.RemainingMillis(base.Add(1500*time.Microsecond)))
	assert.Equal(t, int64(0), rec.RemainingMillis(base.Add(2*time.Minute)))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 60*time.Second, s.Expiry)
	assert.Equal(t, 6, s.CodeLength)
	assert.Equal(t, 3, s.MaxAttempts)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsNotFound(ErrBlobNotFound))
	assert.True(t, IsValidationError(ErrInvalidEmail))
	assert.False(t, IsValidationError(ErrMediumUnavailable))
	assert.True(t, IsInfrastructureError(ErrMediumUnavailable))
}

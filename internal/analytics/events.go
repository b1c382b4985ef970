// Package analytics carries the fire-and-forget observability events of the
// OTP flow. Sinks never block the caller and never surface delivery errors.
package analytics

import (
	"context"
	"time"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

// Event names
const (
	EventOTPGenerated         = "otp_generated"
	EventOTPValidationSuccess = "otp_validation_success"
	EventOTPValidationFailure = "otp_validation_failure"
	EventLogout               = "logout"
)

// Generated never carries the code itself
func Generated(email string, codeLength int, at time.Time) domain.Event {
	return domain.Event{
		Name:      EventOTPGenerated,
		Params:    map[string]interface{}{"email": email, "code_length": codeLength},
		Timestamp: at,
	}
}

func ValidationSuccess(email string, at time.Time) domain.Event {
	return domain.Event{
		Name:      EventOTPValidationSuccess,
		Params:    map[string]interface{}{"email": email},
		Timestamp: at,
	}
}

// ValidationFailure omits attempts when the record was absent or expired
func ValidationFailure(email string, reason domain.Reason, attempts *int, at time.Time) domain.Event {
	params := map[string]interface{}{"email": email, "reason": string(reason)}
	if attempts != nil {
		params["attempts"] = *attempts
	}
	return domain.Event{
		Name:      EventOTPValidationFailure,
		Params:    params,
		Timestamp: at,
	}
}

func Logout(email string, sessionDuration time.Duration, at time.Time) domain.Event {
	return domain.Event{
		Name: EventLogout,
		Params: map[string]interface{}{
			"email":                    email,
			"session_duration_seconds": int64(sessionDuration / time.Second),
		},
		Timestamp: at,
	}
}

// NopSink drops every event
type NopSink struct{}

func (NopSink) Emit(context.Context, domain.Event) {}

// internal/domain/errors.go

package domain

import "errors"

// Storage errors
var (
	ErrBlobNotFound      = errors.New("BLOB_NOT_FOUND")
	ErrMediumUnavailable = errors.New("MEDIUM_UNAVAILABLE")
)

// Validation errors
var (
	ErrInvalidRequest  = errors.New("REQUEST_BODY_INVALID")
	ErrInvalidEmail    = errors.New("EMAIL_INVALID")
	ErrInvalidSettings = errors.New("SETTINGS_INVALID")
)

// Session errors
var (
	ErrSessionMissing = errors.New("SESSION_MISSING")
	ErrTokenInvalid   = errors.New("TOKEN_INVALID")
)

// Rate limiting errors
var (
	ErrRateLimitExceeded = errors.New("RATE_LIMIT_EXCEEDED")
)

// IsNotFound checks if the error is a missing blob
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBlobNotFound)
}

// IsValidationError checks if the error is a caller input error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidSettings)
}

// IsInfrastructureError checks if the error is an infrastructure error
func IsInfrastructureError(err error) bool {
	return errors.Is(err, ErrMediumUnavailable)
}

// Error messages for human readable output
var ErrorMessages = map[string]string{
	"BLOB_NOT_FOUND":       "Session data not found",
	"MEDIUM_UNAVAILABLE":   "Session storage is unavailable",
	"REQUEST_BODY_INVALID": "Invalid request body",
	"EMAIL_INVALID":        "Email address is invalid",
	"SETTINGS_INVALID":     "Invalid OTP settings",
	"SESSION_MISSING":      "Session is missing",
	"TOKEN_INVALID":        "Session token is invalid or expired",
	"RATE_LIMIT_EXCEEDED":  "Rate limit exceeded, please try again later",
	"no_otp":               "No code has been requested for this email",
	"expired":              "Code has expired, request a new one",
	"max_attempts":         "Too many attempts, request a new code",
	"wrong_code":           "Incorrect code",
}

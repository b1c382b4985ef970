// pkg/utils/validator.go

package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
)

const (
	MinExpiry      = time.Second
	MaxExpiry      = time.Hour
	MinAttempts    = 1
	MaxAttempts    = 60
	maxEmailLength = 254
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an address and checks its shape.
// The lifecycle manager uses identities literally, so callers normalise first.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidEmail, raw)
	}
	return email, nil
}

// ValidateSettings checks the overridable lifecycle constants
func ValidateSettings(s domain.Settings) error {
	if s.Expiry < MinExpiry || s.Expiry > MaxExpiry {
		return fmt.Errorf("%w: expiry must be between %s and %s",
			domain.ErrInvalidSettings, MinExpiry, MaxExpiry)
	}

	if s.MaxAttempts < MinAttempts || s.MaxAttempts > MaxAttempts {
		return fmt.Errorf("%w: max attempts must be between %d and %d",
			domain.ErrInvalidSettings, MinAttempts, MaxAttempts)
	}

	if s.CodeLength < MinCodeLength || s.CodeLength > MaxCodeLength {
		return fmt.Errorf("%w: code length must be between %d and %d",
			domain.ErrInvalidSettings, MinCodeLength, MaxCodeLength)
	}

	return nil
}

package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/brightday/internal/apperror"
)

// Passcode length bounds. bcrypt silently truncates input past 72 bytes, so
// longer passcodes are rejected instead.
const (
	MinPasscodeLength = 4
	MaxPasscodeBytes  = 72
)

// DefaultCost is the bcrypt work factor for stored passcode hashes.
const DefaultCost = 12

// PasscodeService hashes and checks the device passcode with bcrypt.
// The cost is injectable so tests can use bcrypt.MinCost.
type PasscodeService struct {
	cost int
}

// NewPasscodeService creates a PasscodeService with the given bcrypt cost.
// A cost outside bcrypt's range falls back to DefaultCost.
func NewPasscodeService(cost int) *PasscodeService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasscodeService{cost: cost}
}

// Hash returns the bcrypt hash of passcode, suitable for the auth.passcode_hash
// config value.
func (p *PasscodeService) Hash(passcode string) (string, error) {
	if utf8.RuneCountInString(passcode) < MinPasscodeLength {
		return "", apperror.ValidationFailed("passcode",
			fmt.Sprintf("passcode must be at least %d characters", MinPasscodeLength))
	}
	if len(passcode) > MaxPasscodeBytes {
		return "", apperror.ValidationFailed("passcode",
			fmt.Sprintf("passcode must be %d bytes or fewer", MaxPasscodeBytes))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing passcode: %w", err)
	}
	return string(hashed), nil
}

// Verify checks passcode against a stored bcrypt hash. A mismatch is an
// apperror.ErrUnauthorized; a malformed hash is a plain error.
func (p *PasscodeService) Verify(hash, passcode string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperror.Unauthorized("invalid passcode")
		}
		return fmt.Errorf("auth: comparing passcode hash: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/auth"
)

// =========================================================================
// HELPERS
// =========================================================================

// newTestAuthService wires an AuthService over a seeded profile store and
// a bcrypt hash of passcode at the minimum cost.
func newTestAuthService(t *testing.T, passcode string) (*AuthService, *ProfileService) {
	t.Helper()

	profiles, _, _ := newTestProfiles(t)

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasscodeService(bcrypt.MinCost)

	var hash string
	if passcode != "" {
		hash, err = ps.Hash(passcode)
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
	}

	return NewAuthService(profiles, ts, ps, hash, testLogger()), profiles
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_CorrectPasscode(t *testing.T) {
	svc, profiles := newTestAuthService(t, "2468")

	result, err := svc.Login(context.Background(), "2468")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login() returned empty token")
	}

	want := profiles.Profile(context.Background()).ID
	if result.Profile.ID != want {
		t.Errorf("Profile.ID = %q, want %q", result.Profile.ID, want)
	}

	subject, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if subject != want {
		t.Errorf("token subject = %q, want %q", subject, want)
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		passcode   string
		want       error
	}{
		{"wrong passcode", "2468", "1357", apperror.ErrUnauthorized},
		{"empty passcode", "2468", "  ", apperror.ErrValidation},
		{"no hash configured", "", "2468", apperror.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t, tt.configured)

			result, err := svc.Login(context.Background(), tt.passcode)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Login() error = %v, want %v", err, tt.want)
			}
			if result != nil {
				t.Error("Login() returned a result alongside an error")
			}
		})
	}
}

// =========================================================================
// ValidateToken TESTS
// =========================================================================

func TestValidateToken_InvalidToken(t *testing.T) {
	svc, _ := newTestAuthService(t, "2468")

	if _, err := svc.ValidateToken("this.is.garbage"); err == nil {
		t.Fatal("ValidateToken() should return error for garbage token")
	}
}

func TestTokenService_IsShared(t *testing.T) {
	svc, _ := newTestAuthService(t, "2468")
	result, err := svc.Login(context.Background(), "2468")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.TokenService().Validate(result.Token); err != nil {
		t.Errorf("TokenService().Validate() error = %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/auth"
	"github.com/sakif/brightday/internal/model"
)

// ProfileReader is the read side of the profile store.
type ProfileReader interface {
	Profile(ctx context.Context) *model.Profile
}

// AuthService checks the device passcode and issues session tokens.
//
// The handler owns cookies and HTTP; this type only knows about passcodes,
// hashes and tokens.
type AuthService struct {
	profiles     ProfileReader
	tokens       *auth.TokenService
	passcodes    *auth.PasscodeService
	passcodeHash string
	logger       *slog.Logger
}

// NewAuthService creates an AuthService that accepts the passcode whose
// bcrypt hash is passcodeHash.
func NewAuthService(
	profiles ProfileReader,
	tokens *auth.TokenService,
	passcodes *auth.PasscodeService,
	passcodeHash string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		profiles:     profiles,
		tokens:       tokens,
		passcodes:    passcodes,
		passcodeHash: passcodeHash,
		logger:       logger,
	}
}

// AuthResult bundles the profile and the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	Profile *model.Profile
	Token   string
}

// Login verifies passcode and issues a token whose subject is the profile ID.
// A wrong passcode is an apperror.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, passcode string) (*AuthResult, error) {
	if strings.TrimSpace(passcode) == "" {
		return nil, apperror.ValidationFailed("passcode", "passcode is required")
	}
	if s.passcodeHash == "" {
		return nil, apperror.Unauthorized("no passcode is configured")
	}

	if err := s.passcodes.Verify(s.passcodeHash, passcode); err != nil {
		s.logger.Warn("login rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	profile := s.profiles.Profile(ctx)
	token, err := s.tokens.Generate(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token: %w", err)
	}

	s.logger.Info("login succeeded", slog.String("profileID", profile.ID))
	return &AuthResult{Profile: profile, Token: token}, nil
}

// ValidateToken returns the subject of a valid token.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	subject, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return subject, nil
}

// TokenService exposes the signer for the HTTP middleware.
func (s *AuthService) TokenService() *auth.TokenService {
	return s.tokens
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/brightday/internal/auth"
	"github.com/sakif/brightday/internal/service"
)

// Authenticator checks a passcode and issues a session token.
// *service.AuthService implements it.
type Authenticator interface {
	Login(ctx context.Context, passcode string) (*service.AuthResult, error)
}

// AuthHandler manages passcode login and logout.
//
// The session lives in an HttpOnly cookie. Logging out only drops the
// cookie; the token itself expires after tokenTTL.
type AuthHandler struct {
	auth         Authenticator
	tokenTTL     time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authn Authenticator, tokenTTL time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         authn,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Passcode string `json:"passcode"`
}

// HandleLogin verifies the passcode, sets the session cookie and returns
// the profile.
//
// HTTP: POST /auth/login
// BODY: {"passcode": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Passcode)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.tokenTTL, h.secureCookie)
	writeJSON(w, http.StatusOK, res.Profile)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sakif/brightday/internal/config"
)

const testSecret = "brightday-test-secret-0123456789"

// newConfiguredTokenService builds the token service the way the server
// does, from the default auth config.
func newConfiguredTokenService(t *testing.T) *TokenService {
	t.Helper()
	cfg := config.Default().Auth
	ts, err := NewTokenService(testSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return ts
}

// profileID returns an id shaped like the ones the profile store assigns.
func profileID() string {
	return xid.New().String()
}

// parseClaims decodes a token signed with testSecret without the
// package's own checks.
func parseClaims(t *testing.T, token string) *claims {
	t.Helper()
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims() error = %v", err)
	}
	return c
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     time.Duration
		wantErr bool
		wantTTL time.Duration
	}{
		{"secret too short", "short", time.Hour, true, 0},
		{"configured ttl", testSecret, config.Default().Auth.TokenTTL, false, 168 * time.Hour},
		{"custom ttl", testSecret, 12 * time.Hour, false, 12 * time.Hour},
		{"zero ttl uses default", testSecret, 0, false, DefaultTokenTTL},
		{"negative ttl uses default", testSecret, -time.Minute, false, DefaultTokenTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTokenService(tt.secret, tt.ttl)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewTokenService() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTokenService() error = %v", err)
			}
			if ts.TTL() != tt.wantTTL {
				t.Errorf("TTL() = %v, want %v", ts.TTL(), tt.wantTTL)
			}
		})
	}
}

// =========================================================================
// SESSION TOKENS
// =========================================================================

func TestGenerate_SessionForProfile(t *testing.T) {
	ts := newConfiguredTokenService(t)
	id := profileID()

	token, err := ts.Generate(id)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not a compact JWT", token)
	}

	c := parseClaims(t, token)
	if c.Subject != id {
		t.Errorf("sub = %q, want profile id %q", c.Subject, id)
	}
	if c.Issuer != Issuer {
		t.Errorf("iss = %q, want %q", c.Issuer, Issuer)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != ts.TTL() {
		t.Errorf("token lifetime = %v, want configured %v", got, ts.TTL())
	}

	got, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != id {
		t.Errorf("Validate() subject = %q, want %q", got, id)
	}
}

func TestValidate_ShortSessionStillValid(t *testing.T) {
	ts := newConfiguredTokenService(t)
	id := profileID()

	token, err := ts.GenerateWithDuration(id, time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}
	if got, err := ts.Validate(token); err != nil || got != id {
		t.Errorf("Validate() = %q, %v; want %q", got, err, id)
	}
}

// =========================================================================
// REJECTED TOKENS
// =========================================================================

func TestValidate_Rejects(t *testing.T) {
	ts := newConfiguredTokenService(t)
	id := profileID()

	valid, err := ts.Generate(id)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	expired, err := ts.GenerateWithDuration(id, -time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}
	noSubject, err := ts.Generate("")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	otherInstall, err := NewTokenService("another-installation-secret!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	foreignSigned, err := otherInstall.Generate(id)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	foreignIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: id,
		Issuer:  Issuer,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"expired session", expired},
		{"tampered signature", valid[:len(valid)-3] + "xxx"},
		{"signed by another installation", foreignSigned},
		{"another issuer", foreignIssuer},
		{"no expiry", noExpiry},
		{"alg none", unsigned},
		{"no subject", noSubject},
		{"empty cookie", ""},
		{"garbage", "not.a.jwt.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := ts.Validate(tt.token); err == nil {
				t.Errorf("Validate() = %q, want error", got)
			}
		})
	}
}

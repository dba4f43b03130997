package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"clearview/internal/domain"
	"clearview/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func claimsFor(role, adminRole string, ttl time.Duration) *models.AdminClaims {
	return &models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Email:       "owner@example.com",
		Role:        role,
		AppMetadata: map[string]any{"admin_role": adminRole},
	}
}

func TestSecretVerifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, err := NewSecretVerifier(testSecret, logger)
	if err != nil {
		t.Fatalf("NewSecretVerifier() error = %v", err)
	}

	tests := []struct {
		name    string
		claims  *models.AdminClaims
		wantErr bool
	}{
		{"valid admin", claimsFor("authenticated", "editor", time.Hour), false},
		{"expired", claimsFor("authenticated", "editor", -time.Hour), true},
		{"anonymous", claimsFor("anon", "editor", time.Hour), true},
		{"no admin role", claimsFor("authenticated", "", time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := v.SignDevToken(tt.claims)
			if err != nil {
				t.Fatalf("SignDevToken() error = %v", err)
			}

			claims, err := v.VerifyToken(token)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Errorf("VerifyToken() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.AdminRole() != "editor" {
				t.Errorf("AdminRole() = %q, want editor", claims.AdminRole())
			}
		})
	}
}

func TestSecretVerifierRejectsOtherKeys(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v, _ := NewSecretVerifier(testSecret, logger)
	other, _ := NewSecretVerifier("fedcba9876543210fedcba9876543210", logger)

	token, err := other.SignDevToken(claimsFor("authenticated", "owner", time.Hour))
	if err != nil {
		t.Fatalf("SignDevToken() error = %v", err)
	}
	if _, err := v.VerifyToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("VerifyToken() error = %v, want ErrUnauthorized", err)
	}
}

func TestNewSecretVerifierShortSecret(t *testing.T) {
	if _, err := NewSecretVerifier("short", slog.Default()); err == nil {
		t.Error("expected error for short secret")
	}
}

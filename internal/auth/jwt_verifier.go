package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clearview/internal/domain"
	"clearview/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetric tokens against a JWKS endpoint
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier fetches public keys from jwksURL. keyfunc caches them and
// refreshes in the background until Close is called.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: logger}, nil
}

// VerifyToken accepts RS256 and ES256 tokens only
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AdminClaims, error) {
	return verify(tokenString, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}

// SecretVerifier verifies HS256 tokens signed with a shared secret.
// Intended for local development and tests.
type SecretVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewSecretVerifier creates an HS256 verifier
func NewSecretVerifier(secret string, logger *slog.Logger) (*SecretVerifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("JWT secret must be at least 32 bytes")
	}
	return &SecretVerifier{secret: []byte(secret), logger: logger}, nil
}

func (v *SecretVerifier) VerifyToken(tokenString string) (*models.AdminClaims, error) {
	keyfn := func(*jwt.Token) (any, error) { return v.secret, nil }
	return verify(tokenString, keyfn, []string{"HS256"}, v.logger)
}

func (v *SecretVerifier) Close() error { return nil }

// SignDevToken issues an HS256 token for role; used by the CLI and tests
func (v *SecretVerifier) SignDevToken(claims *models.AdminClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func verify(tokenString string, keyfn jwt.Keyfunc, algs []string, logger *slog.Logger) (*models.AdminClaims, error) {
	// WithValidMethods rejects algorithm confusion before the key is used
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, keyfn,
		jwt.WithValidMethods(algs),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok {
		logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// anonymous sessions never reach the admin API
	if claims.Role != "authenticated" {
		logger.Warn("token has invalid role", "role", claims.Role, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	if claims.AdminRole() == "" {
		logger.Warn("token has no admin role", "user_id", claims.Subject, "email", claims.Email)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// NewVerifier picks the JWKS verifier when jwksURL is set, else the shared-secret one
func NewVerifier(jwksURL, secret string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL != "" {
		return NewJWKSVerifier(jwksURL, logger)
	}
	if secret != "" {
		logger.Warn("using shared-secret JWT verification, do not use in production")
		return NewSecretVerifier(secret, logger)
	}
	return nil, errors.New("either JWKS_URL or JWT_SECRET must be set")
}

package auth

import "clearview/internal/domain/models"

// JWTVerifier validates bearer tokens for the admin API.
// The middleware only depends on this interface, so tests and local
// development can swap the JWKS verifier for a shared-secret one.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Invalid, expired or non-admin tokens yield domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.AdminClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}

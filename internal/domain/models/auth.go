package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims is the JWT claim set issued by Supabase Auth for admin users.
// The admin role lives in app_metadata, which only the service role can write.
type AdminClaims struct {
	jwt.RegisteredClaims                // sub, iss, aud, exp, iat, ...
	Email                string         `json:"email"`
	Role                 string         `json:"role"` // "authenticated" or "anon"
	AppMetadata          map[string]any `json:"app_metadata"`
	SessionID            string         `json:"session_id"`
}

// GetUserID returns the subject claim
func (c *AdminClaims) GetUserID() string {
	return c.Subject
}

// AdminRole returns app_metadata.admin_role, or "" when absent
func (c *AdminClaims) AdminRole() string {
	role, _ := c.AppMetadata["admin_role"].(string)
	return role
}

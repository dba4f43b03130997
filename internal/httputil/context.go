package httputil

import (
	"context"
	"net/http"
)

type adminKey struct{}

// admin is the caller identity attached by the auth middleware
type admin struct {
	id   string
	role string
}

// WithAdmin attaches the authenticated admin to the request context
func WithAdmin(r *http.Request, userID, role string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), adminKey{}, admin{id: userID, role: role}))
}

func adminFrom(r *http.Request) admin {
	a, _ := r.Context().Value(adminKey{}).(admin)
	return a
}

// GetUserID returns the admin's id, or "" on an unauthenticated request
func GetUserID(r *http.Request) string { return adminFrom(r).id }

// GetRole returns the admin's role, or "" on an unauthenticated request
func GetRole(r *http.Request) string { return adminFrom(r).role }

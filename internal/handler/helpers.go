package handler

import (
	"context"
	"net/http"

	"clearview/internal/domain"
	"clearview/internal/domain/services"
	"clearview/internal/httputil"
)

// respond renders a manager outcome as a result envelope.
// Success uses status ok; failures take their status from the error kind.
func respond[T any](w http.ResponseWriter, ok int, data T, err error) {
	httputil.RespondResult(w, ok, domain.Capture(data, err))
}

// authorize checks the caller's admin role against the permission policy
func authorize(r *http.Request, perms services.PermissionChecker, resource string, action services.Action) error {
	role := httputil.GetRole(r)
	if role == "" {
		return &domain.UnauthorizedError{Message: "no admin role in request"}
	}
	return perms.Check(r.Context(), role, resource, action)
}

// pathID extracts a required path parameter
func pathID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if id == "" {
		return "", domain.NewValidation("%s is required", name)
	}
	return id, nil
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"clearview/internal/auth"
	"clearview/internal/domain"
	"clearview/internal/httputil"
)

// AuthMiddleware validates the bearer token and stores the admin's id and
// role in the request context. Requests without a valid admin token get 401.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondFailure(w, &domain.UnauthorizedError{Message: "missing bearer token"})
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondFailure(w, err)
				return
			}

			next.ServeHTTP(w, httputil.WithAdmin(r, claims.GetUserID(), claims.AdminRole()))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

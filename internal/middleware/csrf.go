package middleware

import (
	"crypto/subtle"
	"net/http"

	"clearview/internal/domain"
	"clearview/internal/httputil"

	"github.com/google/uuid"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF enforces the double-submit cookie check on unsafe methods:
// the csrf_token cookie must match the X-CSRF-Token header.
func CSRF(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(CSRFCookieName)
			header := r.Header.Get(CSRFHeaderName)
			if err != nil || cookie.Value == "" || header == "" ||
				subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				httputil.RespondFailure(w, &domain.ForbiddenError{Message: "csrf token mismatch"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IssueCSRFToken sets a fresh csrf_token cookie and returns the token so the
// admin UI can echo it in the header.
// GET /api/admin/csrf
func IssueCSRFToken(secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CSRFCookieName,
			Value:    token,
			Path:     "/",
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
		httputil.RespondJSON(w, http.StatusOK, domain.Capture(map[string]string{"token": token}, nil))
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

package handler

import (
	"log/slog"
	"net/http"

	"clearview/internal/auth"
	"clearview/internal/cache"
	"clearview/internal/domain/services"
	"clearview/internal/middleware"
	"clearview/internal/service/lifecycle"
	"clearview/internal/service/ordering"
)

// RouterConfig carries everything the HTTP surface needs
type RouterConfig struct {
	Collections   *ordering.Registry
	Records       *lifecycle.Registry
	Permissions   services.PermissionChecker
	Cache         *cache.CollectionCache
	Verifier      auth.JWTVerifier
	Limiter       *middleware.RateLimiter
	Health        Pinger
	CSRFEnabled   bool
	SecureCookies bool
	Logger        *slog.Logger
}

// NewRouter registers public and admin routes.
// Admin routes pass through Auth → RateLimit → CSRF before reaching a handler.
func NewRouter(cfg RouterConfig) http.Handler {
	contentHandler := NewContentHandler(cfg.Collections, cfg.Permissions, cfg.Cache, cfg.Logger)
	recordsHandler := NewRecordsHandler(cfg.Records, cfg.Permissions, cfg.Cache, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Health)

	mux := http.NewServeMux()

	// Public, cached
	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.HandleFunc("GET /api/content/{collection}", contentHandler.PublicList)
	mux.HandleFunc("GET /api/testimonials", recordsHandler.PublicTestimonials)

	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/csrf", middleware.IssueCSRFToken(cfg.SecureCookies))

	// Ordered collections
	admin.HandleFunc("GET /api/admin/content/{collection}", contentHandler.List)
	admin.HandleFunc("POST /api/admin/content/{collection}", contentHandler.Append)
	admin.HandleFunc("PUT /api/admin/content/{collection}/order", contentHandler.Reorder)
	admin.HandleFunc("PATCH /api/admin/content/{collection}/{id}", contentHandler.Update)
	admin.HandleFunc("DELETE /api/admin/content/{collection}/{id}", contentHandler.Remove)
	admin.HandleFunc("POST /api/admin/content/{collection}/{id}/restore", contentHandler.Restore)

	// Soft-deletable records
	admin.HandleFunc("GET /api/admin/records/{kind}", recordsHandler.List)
	admin.HandleFunc("POST /api/admin/records/{kind}", recordsHandler.Create)
	admin.HandleFunc("GET /api/admin/records/{kind}/{id}", recordsHandler.Get)
	admin.HandleFunc("DELETE /api/admin/records/{kind}/{id}", recordsHandler.SoftDelete)
	admin.HandleFunc("POST /api/admin/records/{kind}/{id}/restore", recordsHandler.Restore)
	admin.HandleFunc("DELETE /api/admin/records/{kind}/{id}/permanent", recordsHandler.PermanentDelete)
	admin.HandleFunc("PUT /api/admin/records/{kind}/{id}/active", recordsHandler.SetActive)

	// Apply middleware in reverse order (they wrap each other)
	var adminHandler http.Handler = admin
	adminHandler = middleware.CSRF(cfg.CSRFEnabled)(adminHandler)
	if cfg.Limiter != nil {
		adminHandler = cfg.Limiter.Middleware(adminHandler)
	}
	adminHandler = middleware.AuthMiddleware(cfg.Verifier, cfg.Logger)(adminHandler)
	mux.Handle("/api/admin/", adminHandler)

	return mux
}

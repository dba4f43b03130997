package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clearview/internal/auth"
	"clearview/internal/cache"
	"clearview/internal/config"
	"clearview/internal/handler"
	"clearview/internal/middleware"
	"clearview/internal/permissions"
	"clearview/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging, teed into a log file when LOG_DIR is set
	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.OpenLogFile(cfg.LogDir, "server", cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(cfg, logOutput)
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for admin authentication
	jwtVerifier, err := auth.NewVerifier(cfg.JWKSURL, cfg.JWTSecret, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Collection cache doubles as the revalidation target for every manager
	collectionCache := cache.New(cfg.CacheShards, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	collectionCache.StartCleanupWorker()
	defer collectionCache.StopCleanupWorker()

	// Open store and build managers
	ctx := context.Background()
	st, err := store.Open(ctx, store.OptionsFromConfig(cfg, collectionCache, logger))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	logger.Info("database ready", "driver", st.Driver())

	warmCtx, cancelWarm := context.WithTimeout(ctx, 10*time.Second)
	if err := handler.WarmCache(warmCtx, collectionCache, st.Collections, st.Records); err != nil {
		// Not fatal: public reads load lazily on a miss
		logger.Warn("cache warm-up failed", "error", err)
	}
	cancelWarm()

	// Initialize permission policy
	permissionRegistry, err := permissions.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize permission registry: %v", err)
	}
	logger.Info("permission registry initialized", "roles", permissionRegistry.RoleNames())

	router := handler.NewRouter(handler.RouterConfig{
		Collections:   st.Collections,
		Records:       st.Records,
		Permissions:   permissionRegistry,
		Cache:         collectionCache,
		Verifier:      jwtVerifier,
		Limiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Health:        st,
		CSRFEnabled:   cfg.CSRFEnabled,
		SecureCookies: cfg.Environment == "prod",
		Logger:        logger,
	})

	// Build middleware chain
	var h http.Handler = router

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes (auth is applied to /api/admin/ inside the router)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CSRFHeaderName},
		ExposedHeaders:   []string{"ETag", middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed", "error", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

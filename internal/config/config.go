package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	TablePrefix string
	// Persistence
	StoreDriver string // "postgres" or "sqlite"
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	SQLitePath  string
	// Admin authentication
	JWKSURL   string
	JWTSecret string // HS256 secret for locally minted admin tokens
	// HTTP gates
	CORSOrigins    string
	CSRFEnabled    bool
	RateLimitRPS   float64
	RateLimitBurst int
	// Collection cache
	CacheTTLSeconds int
	CacheShards     int
	// Lifecycle policies
	RestorePolicy           string // "keep_inactive" or "reactivate"
	PurgeRequiresSoftDelete bool
	// Logging
	LogDir      string
	MaxLogFiles int
	// Debug flags
	Debug bool
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	RestoreKeepInactive = "keep_inactive"
	RestoreReactivate   = "reactivate"
)

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		TablePrefix: getTablePrefix(env),

		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getEnvInt("DB_MIN_CONNS", 2)),
		SQLitePath:  getEnv("SQLITE_PATH", "clearview.db"),

		JWKSURL:   getEnv("JWKS_URL", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		CSRFEnabled:    getEnv("CSRF_ENABLED", "true") == "true",
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),
		CacheShards:     getEnvInt("CACHE_SHARDS", 16),

		RestorePolicy:           getRestorePolicy(),
		PurgeRequiresSoftDelete: getEnv("PURGE_REQUIRES_SOFT_DELETE", "false") == "true",

		LogDir:      getEnv("LOG_DIR", ""),
		MaxLogFiles: getEnvInt("MAX_LOG_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// ReactivateOnRestore reports whether restoring a record also re-publishes it
func (c *Config) ReactivateOnRestore() bool {
	return c.RestorePolicy == RestoreReactivate
}

// getRestorePolicy falls back to keep_inactive for unknown values
func getRestorePolicy() string {
	policy := strings.ToLower(getEnv("RESTORE_POLICY", RestoreKeepInactive))
	if policy != RestoreReactivate {
		return RestoreKeepInactive
	}
	return policy
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

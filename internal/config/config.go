package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr         = ":8000"
	defaultSecretKey        = "change-me-secret-key"
	defaultJWTTTL           = "24h"
	defaultSQLitePath       = "foodgram.db"
	defaultMediaRoot        = "./media"
	defaultMediaURL         = "/media"
	defaultPublicBaseURL    = "http://localhost:8000"
	defaultPageSize         = "6"
	defaultMaxPageSize      = "100"
	defaultLogLevel         = "info"
	defaultLogFormat        = "color"
	defaultRateLimitRPS     = "5"
	defaultRateLimitBurst   = "10"
	defaultCatalogCacheSize = "512"
	defaultCatalogCacheTTL  = "10m"
	defaultShutdownTimeout  = "10s"
)

type AppConfig struct {
	AppEnv           string
	HTTPAddr         string
	DatabaseURL      string
	SecretKey        string
	JWTTTL           time.Duration
	MediaRoot        string
	MediaURL         string
	PublicBaseURL    string
	PageSize         int
	MaxPageSize      int
	CORSOrigins      []string
	LogLevel         string
	LogFormat        string
	RateLimitRPS     float64
	RateLimitBurst   int
	CatalogCacheSize int
	CatalogCacheTTL  time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads the configuration from the environment. Call godotenv before Load if a
// .env file should be honoured.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = databaseURL()
	cfg.SecretKey = strings.TrimSpace(getEnv("SECRET_KEY", defaultSecretKey))
	cfg.MediaRoot = strings.TrimSpace(getEnv("MEDIA_ROOT", defaultMediaRoot))
	cfg.MediaURL = strings.TrimRight(strings.TrimSpace(getEnv("MEDIA_URL", defaultMediaURL)), "/")
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", defaultPublicBaseURL)), "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", defaultCatalogCacheTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = parseIntEnv("PAGE_SIZE", defaultPageSize); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = parseIntEnv("MAX_PAGE_SIZE", defaultMaxPageSize); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheSize, err = parseIntEnv("CATALOG_CACHE_SIZE", defaultCatalogCacheSize); err != nil {
		return nil, err
	}
	rps := strings.TrimSpace(getEnv("RATE_LIMIT_RPS", defaultRateLimitRPS))
	if cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS value %q: %w", rps, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production safeguards.
func (c *AppConfig) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// databaseURL prefers DATABASE_URL and falls back to the POSTGRES_* variables used by
// the compose file. Without either a local SQLite file is used.
func databaseURL() string {
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		return dsn
	}
	name := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if name == "" {
		return strings.TrimSpace(getEnv("SQLITE_PATH", defaultSQLitePath))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("POSTGRES_USER", "postgres"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432"),
		Path:     "/" + name,
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func validateConfig(cfg *AppConfig) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be > 0")
	}
	if cfg.MaxPageSize < cfg.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE must be >= PAGE_SIZE")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}
	if cfg.CatalogCacheSize <= 0 {
		return fmt.Errorf("CATALOG_CACHE_SIZE must be > 0")
	}
	if !strings.HasPrefix(cfg.MediaURL, "/") && !strings.Contains(cfg.MediaURL, "://") {
		return fmt.Errorf("MEDIA_URL must be an absolute path or URL")
	}
	switch cfg.LogFormat {
	case "text", "json", "color":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: text, json, color")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SecretKey, defaultSecretKey) {
			return fmt.Errorf("in prod/release SECRET_KEY must be set and not default")
		}
		if len(cfg.SecretKey) < 32 {
			return fmt.Errorf("in prod/release SECRET_KEY must be at least 32 characters")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

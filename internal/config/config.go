package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Organization name matching modes accepted by ORG_NAME_MATCHING.
const (
	OrgMatchingExact      = "exact"
	OrgMatchingNormalized = "normalized"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// ImportConfig tunes the batch importer.
type ImportConfig struct {
	BatchSize      int
	Workers        int
	OrgMatching    string
	PhoneRegion    string
	MaxUploadBytes int64
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	DBMaxConns      int32
	JWTSecret       string
	Port            string
	Env             string
	LogLevel        string
	RateLimitImport RateLimitConfig
	TokenTTL        time.Duration
	Import          ImportConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  int32(parseInt(getEnv("DB_MAX_CONNS", "10"), 10)),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		TokenTTL:    parseDuration(getEnv("JWT_TTL", "24h")),
		Import: ImportConfig{
			BatchSize:      parseInt(getEnv("IMPORT_BATCH_SIZE", "500"), 500),
			Workers:        parseInt(getEnv("IMPORT_WORKERS", "1"), 1),
			OrgMatching:    strings.ToLower(getEnv("ORG_NAME_MATCHING", OrgMatchingExact)),
			PhoneRegion:    strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
			MaxUploadBytes: int64(parseInt(getEnv("MAX_UPLOAD_MB", "20"), 20)) << 20,
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_IMPORT", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_IMPORT value: %w", err)
	}
	cfg.RateLimitImport = rl

	switch cfg.Import.OrgMatching {
	case OrgMatchingExact, OrgMatchingNormalized:
	default:
		return nil, fmt.Errorf("invalid ORG_NAME_MATCHING value: %q", cfg.Import.OrgMatching)
	}
	if cfg.Import.BatchSize <= 0 {
		return nil, fmt.Errorf("IMPORT_BATCH_SIZE must be positive")
	}
	if cfg.Import.Workers <= 0 {
		cfg.Import.Workers = 1
	}

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return v
}

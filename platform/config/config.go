// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MaxTourAPIAttempts caps TOUR_API_MAX_ATTEMPTS.
const MaxTourAPIAttempts = 10

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// TourAPIConfig provides settings for the Korea Tourism Organization API client.
type TourAPIConfig interface {
	GetTourAPIKey() string
	GetPublicTourAPIKey() string
	GetTourAPIBaseURL() string
	GetTourAPIMobileApp() string
	GetTourAPITimeout() time.Duration
	GetTourAPIMaxAttempts() int
	IsTourAPIBreakerEnabled() bool
	IsTourAPIFailFastAuth() bool
}

// CacheConfig provides settings for the upstream response cache.
type CacheConfig interface {
	GetRedisURL() string
	GetCacheTTL() time.Duration
	IsRedisCacheEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RateLimitConfig provides settings for the per-IP inbound rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	TourAPIKey           string
	PublicTourAPIKey     string
	TourAPIBaseURL       string
	TourAPIMobileApp     string
	TourAPITimeout       time.Duration
	TourAPIMaxAttempts   int
	TourAPIBreakerEnable bool
	TourAPIFailFastAuth  bool
	RedisURL             string
	CacheTTL             time.Duration
	RateLimitRPS         float64
	RateLimitBurst       int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// TourAPIConfig implementation
func (c *Config) GetTourAPIKey() string            { return c.TourAPIKey }
func (c *Config) GetPublicTourAPIKey() string      { return c.PublicTourAPIKey }
func (c *Config) GetTourAPIBaseURL() string        { return c.TourAPIBaseURL }
func (c *Config) GetTourAPIMobileApp() string      { return c.TourAPIMobileApp }
func (c *Config) GetTourAPITimeout() time.Duration { return c.TourAPITimeout }
func (c *Config) GetTourAPIMaxAttempts() int       { return c.TourAPIMaxAttempts }
func (c *Config) IsTourAPIBreakerEnabled() bool    { return c.TourAPIBreakerEnable }
func (c *Config) IsTourAPIFailFastAuth() bool      { return c.TourAPIFailFastAuth }

// CacheConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }
func (c *Config) IsRedisCacheEnabled() bool  { return c.RedisURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// Load reads configuration from environment variables.
// The tour API key slots are read but not checked; tourapi.ResolveCredential
// owns that validation.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	var errs []error
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		TourAPIKey:           getEnv("TOUR_API_KEY", ""),
		PublicTourAPIKey:     getEnv("NEXT_PUBLIC_TOUR_API_KEY", ""),
		TourAPIBaseURL:       getEnv("TOUR_API_BASE_URL", "https://apis.data.go.kr/B551011/KorService2"),
		TourAPIMobileApp:     getEnv("TOUR_API_MOBILE_APP", "MyTrip"),
		TourAPITimeout:       parseDurationEnv("TOUR_API_TIMEOUT", "10s", &errs),
		TourAPIMaxAttempts:   parseIntEnv("TOUR_API_MAX_ATTEMPTS", "3", &errs),
		TourAPIBreakerEnable: strings.EqualFold(getEnv("TOUR_API_BREAKER_ENABLED", "false"), "true"),
		TourAPIFailFastAuth:  strings.EqualFold(getEnv("TOUR_API_FAIL_FAST_AUTH", "false"), "true"),
		RedisURL:             getEnv("REDIS_URL", ""),
		CacheTTL:             parseDurationEnv("TOUR_CACHE_TTL", "10m", &errs),
		RateLimitRPS:         parseFloatEnv("RATE_LIMIT_RPS", "10", &errs),
		RateLimitBurst:       parseIntEnv("RATE_LIMIT_BURST", "20", &errs),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.TourAPITimeout <= 0 {
		return nil, fmt.Errorf("TOUR_API_TIMEOUT must be a positive duration")
	}
	if cfg.TourAPIMaxAttempts < 1 || cfg.TourAPIMaxAttempts > MaxTourAPIAttempts {
		return nil, fmt.Errorf("TOUR_API_MAX_ATTEMPTS must be between 1 and %d", MaxTourAPIAttempts)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("TOUR_CACHE_TTL must be a positive duration")
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	if !strings.HasPrefix(cfg.TourAPIBaseURL, "http://") && !strings.HasPrefix(cfg.TourAPIBaseURL, "https://") {
		return nil, fmt.Errorf("TOUR_API_BASE_URL must be an http(s) URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// The parse helpers record a malformed value in errs instead of guessing.

func parseDurationEnv(key, fallback string, errs *[]error) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return 0
	}
	return d
}

func parseIntEnv(key, fallback string, errs *[]error) int {
	result, err := strconv.Atoi(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return 0
	}
	return result
}

func parseFloatEnv(key, fallback string, errs *[]error) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(getEnv(key, fallback)), 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

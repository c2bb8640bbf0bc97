// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ApolloConfig provides settings for the bulk contact-search provider.
type ApolloConfig interface {
	GetApolloAPIKey() string
	GetApolloBaseURL() string
	GetApolloRatePerSecond() float64
}

// EnrowConfig provides settings for the asynchronous email-enrichment provider.
type EnrowConfig interface {
	GetEnrowAPIKey() string
	GetEnrowBaseURL() string
	GetEnrowPollInterval() time.Duration
	GetEnrowPollAttempts() int
}

// ProfileAPIConfig provides settings for the synchronous profile-fetch provider.
type ProfileAPIConfig interface {
	GetProfileAPIKey() string
	GetProfileAPIBaseURL() string
}

// LinkedInConfig provides settings for the LinkedIn automation session.
type LinkedInConfig interface {
	GetLinkedInLoginWait() time.Duration
	GetLinkedInSessionTTL() time.Duration
	GetLinkedInHeadless() bool
}

// SchedulerConfig provides settings for the asynq background job layer.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	JWTAccessSecret string
	CORSAllowAll    bool
	CORSOrigins     []string
	CORSAllowCreds  bool

	ApolloAPIKey        string
	ApolloBaseURL       string
	ApolloRatePerSecond float64

	EnrowAPIKey       string
	EnrowBaseURL      string
	EnrowPollInterval time.Duration
	EnrowPollAttempts int

	ProfileAPIKey     string
	ProfileAPIBaseURL string

	LinkedInLoginWait  time.Duration
	LinkedInSessionTTL time.Duration
	LinkedInHeadless   bool

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ApolloConfig implementation
func (c *Config) GetApolloAPIKey() string         { return c.ApolloAPIKey }
func (c *Config) GetApolloBaseURL() string        { return c.ApolloBaseURL }
func (c *Config) GetApolloRatePerSecond() float64 { return c.ApolloRatePerSecond }

// EnrowConfig implementation
func (c *Config) GetEnrowAPIKey() string              { return c.EnrowAPIKey }
func (c *Config) GetEnrowBaseURL() string             { return c.EnrowBaseURL }
func (c *Config) GetEnrowPollInterval() time.Duration { return c.EnrowPollInterval }
func (c *Config) GetEnrowPollAttempts() int           { return c.EnrowPollAttempts }

// ProfileAPIConfig implementation
func (c *Config) GetProfileAPIKey() string     { return c.ProfileAPIKey }
func (c *Config) GetProfileAPIBaseURL() string { return c.ProfileAPIBaseURL }

// LinkedInConfig implementation
func (c *Config) GetLinkedInLoginWait() time.Duration  { return c.LinkedInLoginWait }
func (c *Config) GetLinkedInSessionTTL() time.Duration { return c.LinkedInSessionTTL }
func (c *Config) GetLinkedInHeadless() bool            { return c.LinkedInHeadless }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTAccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		CORSAllowCreds:  strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		ApolloAPIKey:        getEnv("APOLLO_API_KEY", ""),
		ApolloBaseURL:       getEnv("APOLLO_BASE_URL", "https://api.apollo.io/v1"),
		ApolloRatePerSecond: mustFloat(getEnv("APOLLO_RATE_PER_SECOND", "2")),

		EnrowAPIKey:       getEnv("ENROW_API_KEY", ""),
		EnrowBaseURL:      getEnv("ENROW_BASE_URL", "https://api.enrow.io"),
		EnrowPollInterval: mustDuration(getEnv("ENROW_POLL_INTERVAL", "3s")),
		EnrowPollAttempts: mustInt(getEnv("ENROW_POLL_ATTEMPTS", "20")),

		ProfileAPIKey:     getEnv("PROFILE_API_KEY", ""),
		ProfileAPIBaseURL: getEnv("PROFILE_API_BASE_URL", "https://linkedin-data-api.p.rapidapi.com"),

		LinkedInLoginWait:  mustDuration(getEnv("LINKEDIN_LOGIN_WAIT", "300s")),
		LinkedInSessionTTL: mustDuration(getEnv("LINKEDIN_SESSION_TTL", "720h")),
		LinkedInHeadless:   strings.EqualFold(getEnv("LINKEDIN_HEADLESS", "false"), "true"),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EnrowPollAttempts < 1 {
		return nil, fmt.Errorf("ENROW_POLL_ATTEMPTS must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port    int
	BaseURL string

	Environment string
	LogLevel    string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	// RequestTimeout bounds each store-touching request; expirations
	// surface as timeouts the client may retry.
	RequestTimeout time.Duration

	// ReportCacheTTL controls how long assembled reports stay in Redis.
	ReportCacheTTL time.Duration

	// Stripe configuration for the payment ingestion webhook.
	StripeSecretKey     string
	StripeWebhookSecret string

	// Tracing (optional)
	TracingEnabled  bool
	TracingEndpoint string
	TraceSampleRate float64
}

func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Port = getEnvInt("PORT", 8080)

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	cfg.JWTSecret = getEnvString("JWT_SECRET", "change-me-in-production")

	cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.ReportCacheTTL, err = getEnvDuration("REPORT_CACHE_TTL", "60s")
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_CACHE_TTL: %w", err)
	}

	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")

	cfg.Environment = getEnvString("ENVIRONMENT", "development")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	// Stripe (optional; without it the webhook route is not mounted)
	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.TracingEnabled = getEnvBool("TRACING_ENABLED", false)
	cfg.TracingEndpoint = getEnvString("TRACING_ENDPOINT", "localhost:4317")
	cfg.TraceSampleRate = getEnvFloat("TRACE_SAMPLE_RATE", 1.0)

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key, defaultValue string) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return time.ParseDuration(value)
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.RequestTimeout < time.Second {
		return fmt.Errorf("request timeout too small: %s", c.RequestTimeout)
	}

	return nil
}

// Package config loads service configuration from environment variables.
// A .env file in the working directory is honored for local development.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Service struct {
		Name    string
		Version string
		Env     string
		Port    string
	}

	Logging struct {
		Level string
	}

	Tracing struct {
		Enabled    bool
		Endpoint   string
		SampleRate float64
	}

	Profiling struct {
		Enabled  bool
		Endpoint string
	}

	Gateway struct {
		// URL is the single remote GraphQL endpoint.
		URL string
		// TimeoutSeconds bounds each outbound request.
		TimeoutSeconds int
	}

	Session struct {
		// CookieSecure marks the session cookies Secure.
		CookieSecure bool
		// CookieSameSite is "strict" or "lax".
		CookieSameSite string
	}

	Shutdown struct {
		TimeoutSeconds             int
		ReadinessDrainDelaySeconds int
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Load reads all environment variables and builds the config.
func Load() *Config {
	// Best-effort: absence of a .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Service.Name = getEnv("SERVICE_NAME", "storefront")
	cfg.Service.Version = getEnv("SERVICE_VERSION", "dev")
	cfg.Service.Env = getEnv("SERVICE_ENV", "local")
	cfg.Service.Port = getEnv("SERVICE_PORT", "8080")

	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	cfg.Tracing.Enabled = getBoolEnv("TRACING_ENABLED", false)
	cfg.Tracing.Endpoint = getEnv("TRACING_OTLP_ENDPOINT", "localhost:4318")
	cfg.Tracing.SampleRate = getFloatEnv("TRACING_SAMPLE_RATE", 0.1)

	cfg.Profiling.Enabled = getBoolEnv("PROFILING_ENABLED", false)
	cfg.Profiling.Endpoint = getEnv("PROFILING_ENDPOINT", "http://localhost:4040")

	cfg.Gateway.URL = getEnv("GATEWAY_URL", "")
	cfg.Gateway.TimeoutSeconds = getIntEnv("GATEWAY_TIMEOUT_SECONDS", 30)

	cfg.Session.CookieSecure = getBoolEnv("SESSION_COOKIE_SECURE", cfg.Service.Env != "local")
	cfg.Session.CookieSameSite = getEnv("SESSION_COOKIE_SAMESITE", "strict")

	cfg.Shutdown.TimeoutSeconds = getIntEnv("SHUTDOWN_TIMEOUT_SECONDS", 15)
	cfg.Shutdown.ReadinessDrainDelaySeconds = getIntEnv("READINESS_DRAIN_DELAY_SECONDS", 5)

	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Gateway.URL == "" {
		return fmt.Errorf("GATEWAY_URL must be set")
	}
	if _, err := url.ParseRequestURI(c.Gateway.URL); err != nil {
		return fmt.Errorf("GATEWAY_URL is not a valid URL: %w", err)
	}
	if _, err := strconv.Atoi(c.Service.Port); err != nil {
		return fmt.Errorf("SERVICE_PORT must be numeric: %w", err)
	}
	switch c.Session.CookieSameSite {
	case "strict", "lax":
	default:
		return fmt.Errorf("SESSION_COOKIE_SAMESITE must be strict or lax, got %q", c.Session.CookieSameSite)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be in [0,1], got %v", c.Tracing.SampleRate)
	}
	return nil
}

// GetGatewayTimeoutDuration returns the outbound request timeout.
func (c *Config) GetGatewayTimeoutDuration() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}

// GetShutdownTimeoutDuration returns the graceful-shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Shutdown.TimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns how long to keep serving after
// readiness starts failing, so load balancers stop routing before shutdown.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Shutdown.ReadinessDrainDelaySeconds) * time.Second
}

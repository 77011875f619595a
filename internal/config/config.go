package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the echo server.
// Environment variables are parsed from the ECHO_SERVER_ prefix,
// e.g. ECHO_SERVER_HTTP_PORT, ECHO_SERVER_POSTGRES_DSN.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Emotion classification (GLM chat-completions endpoint)
	GLMAPIKey             string `envconfig:"GLM_API_KEY" default:""`
	GLMBaseURL            string `envconfig:"GLM_BASE_URL" default:"https://open.bigmodel.cn/api/paas/v4/chat/completions"`
	GLMModel              string `envconfig:"GLM_MODEL" default:"glm-4-plus"`
	ClassifyMinIntervalMS int    `envconfig:"CLASSIFY_MIN_INTERVAL_MS" default:"2000"`
	ClassifyTimeoutSecs   int    `envconfig:"CLASSIFY_TIMEOUT_SECONDS" default:"15"`

	// Nearby query defaults
	NearbyDefaultRadiusMeters float64 `envconfig:"NEARBY_DEFAULT_RADIUS_METERS" default:"5000"`
	NearbyMaxResults          int     `envconfig:"NEARBY_MAX_RESULTS" default:"50"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ECHO_SERVER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.ClassifyMinIntervalMS < 0 {
		return fmt.Errorf("invalid CLASSIFY_MIN_INTERVAL_MS: %d", c.ClassifyMinIntervalMS)
	}
	if c.NearbyDefaultRadiusMeters <= 0 {
		return fmt.Errorf("invalid NEARBY_DEFAULT_RADIUS_METERS: %f", c.NearbyDefaultRadiusMeters)
	}
	if c.NearbyMaxResults <= 0 {
		return fmt.Errorf("invalid NEARBY_MAX_RESULTS: %d", c.NearbyMaxResults)
	}
	return nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		GLMModel:                  "glm-4-plus",
		ClassifyMinIntervalMS:     2000,
		ClassifyTimeoutSecs:       15,
		NearbyDefaultRadiusMeters: 5000,
		NearbyMaxResults:          50,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 5,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// ClassifyMinInterval returns the minimum delay between outbound classifier calls.
func (c *Config) ClassifyMinInterval() time.Duration {
	return time.Duration(c.ClassifyMinIntervalMS) * time.Millisecond
}

// ClassifyTimeout returns the outbound classifier request timeout.
func (c *Config) ClassifyTimeout() time.Duration {
	return time.Duration(c.ClassifyTimeoutSecs) * time.Second
}

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the UniTime service.
// Environment variables are parsed from the UNITIME_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override drivers
	DBDriver   string `envconfig:"DB_DRIVER" default:"auto"`
	BlobDriver string `envconfig:"BLOB_DRIVER" default:"cloudinary"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"5000"`

	// Storage
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/unitime.db"`

	// Generative AI
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiBase   string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`

	// Cloudinary object store
	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME" default:""`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY" default:""`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET" default:""`

	// Backblaze B2 object store (alternative blob driver)
	B2AccountID string `envconfig:"B2_ACCOUNT_ID" default:""`
	B2AppKey    string `envconfig:"B2_APP_KEY" default:""`
	B2Bucket    string `envconfig:"B2_BUCKET" default:""`

	// Auth: bearer-token middleware is enabled only when a secret is present.
	JWTSecret string `envconfig:"JWT_SECRET" default:""`

	// Chat responder latency, milliseconds. Kept configurable so tests can
	// zero it out.
	ChatDelayMs int `envconfig:"CHAT_DELAY_MS" default:"800"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	allowedBlob := map[string]bool{"cloudinary": true, "b2": true, "none": true}
	if !allowedBlob[c.BlobDriver] {
		return fmt.Errorf("unsupported BLOB_DRIVER: %s", c.BlobDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Example: UNITIME_HTTP_PORT, UNITIME_GEMINI_API_KEY.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("UNITIME", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("blob_driver", cfg.BlobDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("gemini_key_present", cfg.GeminiAPIKey != "").
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		BuildTarget: "local",
		DBDriver:    "sqlite",
		BlobDriver:  "none",
		Environment: EnvTesting,
		HTTPPort:    5000,
		SQLitePath:  ":memory:",
		ChatDelayMs: 0,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

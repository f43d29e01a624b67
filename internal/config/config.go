// Package config holds the storefront service configuration.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Emmanation-Designs/Gibson-Collections/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis (shopper state persistence)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Persisted shopper state TTL in hours (default: 30 days)
	StateTTL int `env:"STATE_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Catalog service
	CatalogURL     string `env:"CATALOG_URL" envDefault:"http://localhost:8081"`
	CatalogAPIKey  string `env:"CATALOG_API_KEY" envDefault:""`
	CatalogTTLSecs int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"60"`

	// Identity provider
	IdentityURL    string `env:"IDENTITY_URL" envDefault:"http://localhost:8082"`
	IdentityAPIKey string `env:"IDENTITY_API_KEY" envDefault:""`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev-secret"`

	// Object storage for product images
	StorageURL    string `env:"STORAGE_URL" envDefault:"http://localhost:8083"`
	StorageAPIKey string `env:"STORAGE_API_KEY" envDefault:""`

	// Storefront behavior
	AdminEmails    []string `env:"ADMIN_EMAILS" envDefault:"gibsoncollections1@gmail.com,gibsoncollections2@gmail.com" envSeparator:","`
	GroupLimit     int      `env:"HOME_GROUP_LIMIT" envDefault:"4"`
	WhatsAppNumber string   `env:"WHATSAPP_NUMBER" envDefault:"2348033464218"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CatalogCacheTTL returns the catalog cache TTL as a duration.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogTTLSecs) * time.Second
}

// StateTTLDuration returns the persisted state TTL as a duration.
func (c *Config) StateTTLDuration() time.Duration {
	return time.Duration(c.StateTTL) * time.Hour
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GroupLimit < 1 {
		return fmt.Errorf("invalid home group limit: %d", c.GroupLimit)
	}
	if len(c.AdminEmails) == 0 {
		return fmt.Errorf("at least one admin email is required")
	}
	return nil
}

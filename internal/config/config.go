package config

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // vendor hours must resolve in minimal containers

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable. Nested sections add
// their own name, e.g. FOODFINDER_SERVER_PORT or FOODFINDER_CATALOG_SOURCES
const EnvPrefix = "FOODFINDER"

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Timezone string `envconfig:"TIMEZONE" default:"America/Vancouver"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	ReadTimeout     int    `envconfig:"READ_TIMEOUT" default:"15"`
	WriteTimeout    int    `envconfig:"WRITE_TIMEOUT" default:"15"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"`
}

type AuthConfig struct {
	APIKeys []string `envconfig:"API_KEYS" default:"apitest"` // Valid API keys for catalog administration
}

// Allows reports whether key is one of the configured API keys. Every key is
// compared in constant time.
func (a AuthConfig) Allows(key string) bool {
	if key == "" {
		return false
	}
	allowed := false
	for _, k := range a.APIKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(k)) == 1 {
			allowed = true
		}
	}
	return allowed
}

type CatalogConfig struct {
	// Sources are file paths, http(s) URLs or redis://<key> locations
	Sources        []string      `envconfig:"SOURCES" default:"data/campus.yaml"`
	ReloadInterval time.Duration `envconfig:"RELOAD_INTERVAL" default:"0s"`
}

type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:""`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("FOODFINDER_SERVER_PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if len(c.Catalog.Sources) == 0 {
		return fmt.Errorf("at least one catalog source must be configured")
	}

	for _, src := range c.Catalog.Sources {
		if strings.HasPrefix(strings.TrimSpace(src), "redis://") && c.Redis.Addr == "" {
			return fmt.Errorf("catalog source %s requires FOODFINDER_REDIS_ADDR", src)
		}
	}

	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("FOODFINDER_CATALOG_RELOAD_INTERVAL must not be negative")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Location resolves the configured timezone vendor hours are expressed in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

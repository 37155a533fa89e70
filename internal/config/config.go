// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server and CLI configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures analysis history persistence. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig configures JWT verification for the API. An empty issuer
// disables authentication.
type AuthConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Addr: ":8080"},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Server.Addr = getEnv("SUBTEXT_ADDR", cfg.Server.Addr)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Auth.Issuer = getEnv("SUBTEXT_AUTH_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.Audience = getEnv("SUBTEXT_AUTH_AUDIENCE", cfg.Auth.Audience)

	if cfg.RateLimit.RPS <= 0 {
		cfg.RateLimit.RPS = Default().RateLimit.RPS
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = Default().RateLimit.Burst
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

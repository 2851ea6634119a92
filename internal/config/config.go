// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// MongoDB connection
	MongoURI string
	MongoDB  string

	// Redis (optional list-response cache; empty addr disables caching)
	RedisAddr     string
	RedisPassword string

	// Auth
	JWTSecret string
	JWTExpiry time.Duration

	// Uploads
	UploadDir string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is honored if present. Returns an error if critical values are missing
// in production mode.
func Load() (*Config, error) {
	// Best-effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		MongoURI: envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  envOrDefault("MONGO_DB", "inkpress"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: envOrDefault("JWT_SECRET", "dev-secret-change-me"),

		UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),
	}

	expiry := envOrDefault("JWT_EXPIRE", "720h") // 30 days
	d, err := time.ParseDuration(expiry)
	if err != nil {
		return nil, fmt.Errorf("parse JWT_EXPIRE: %w", err)
	}
	cfg.JWTExpiry = d

	if cfg.Env == "production" {
		if cfg.JWTSecret == "dev-secret-change-me" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

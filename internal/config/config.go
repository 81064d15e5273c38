package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// AuthConfig holds service token settings. TokenHash is the bcrypt hash of
// the bearer token the Discord bot presents; the plaintext token is never
// stored server-side.
type AuthConfig struct {
	TokenHash string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	SummaryReminderInterval time.Duration
	SummaryGracePeriod      time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("QUESTBOARD_SERVER_PORT", "8080"),
			Env:            getEnv("QUESTBOARD_SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("QUESTBOARD_SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("QUESTBOARD_SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("QUESTBOARD_CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("QUESTBOARD_DB_HOST", "localhost"),
			Port:      getEnv("QUESTBOARD_DB_PORT", "8000"),
			Namespace: getEnv("QUESTBOARD_DB_NAMESPACE", "questboard"),
			Database:  getEnv("QUESTBOARD_DB_DATABASE", "main"),
			User:      getEnv("QUESTBOARD_DB_USER", "root"),
			Password:  getEnv("QUESTBOARD_DB_PASSWORD", "root"),
		},
		Auth: AuthConfig{
			TokenHash: getEnv("QUESTBOARD_TOKEN_HASH", ""),
		},
		Jobs: JobsConfig{
			SummaryReminderInterval: getDurationEnv("QUESTBOARD_SUMMARY_REMINDER_INTERVAL", time.Hour),
			SummaryGracePeriod:      getDurationEnv("QUESTBOARD_SUMMARY_GRACE_PERIOD", 48*time.Hour),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("QUESTBOARD_SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("QUESTBOARD_SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("QUESTBOARD_CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("QUESTBOARD_DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("QUESTBOARD_DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("QUESTBOARD_DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("QUESTBOARD_DB_DATABASE is required"))
	}

	// Auth validation. Development runs may skip the token, production
	// must not.
	if c.IsProduction() && c.Auth.TokenHash == "" {
		errs = append(errs, errors.New("QUESTBOARD_TOKEN_HASH is required in production"))
	}
	if c.Auth.TokenHash != "" && !strings.HasPrefix(c.Auth.TokenHash, "$2") {
		errs = append(errs, errors.New("QUESTBOARD_TOKEN_HASH must be a bcrypt hash"))
	}

	// Jobs validation
	if c.Jobs.SummaryReminderInterval <= 0 {
		errs = append(errs, errors.New("QUESTBOARD_SUMMARY_REMINDER_INTERVAL must be positive"))
	}
	if c.Jobs.SummaryGracePeriod < 0 {
		errs = append(errs, errors.New("QUESTBOARD_SUMMARY_GRACE_PERIOD must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	ReportingTimezone    string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	URI  string
	Name string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		URI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Name: getEnv("DB_NAME", "clinic"),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:3000"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		ReportingTimezone:    getEnv("REPORTING_TIMEZONE", "Asia/Kolkata"),
	}

	// All "today"/"this month" calendar math runs in this zone, so fail fast
	// if the host is missing tzdata for it.
	if _, err := time.LoadLocation(cfg.ReportingTimezone); err != nil {
		return nil, fmt.Errorf("invalid REPORTING_TIMEZONE %q: %w", cfg.ReportingTimezone, err)
	}

	return cfg, nil
}

// ReportingLocation returns the timezone used for all collections reporting.
func (c *Config) ReportingLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportingTimezone)
	if err != nil {
		// Validated in LoadConfig; fall back to UTC rather than panic.
		return time.UTC
	}
	return loc
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

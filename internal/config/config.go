package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Admin login (bcrypt hash, see `hostelctl hash-password`)
	AdminPasswordHash string

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey string
	FromEmail    string

	// Sentry
	SentryDSN string

	// Billing
	BillingTimezone   string
	BillingLocation   *time.Location
	HostelDisplayName string

	// Retention sweep and reminders
	RetentionDays         int
	SweepIntervalMinutes  int
	ReminderIntervalHours int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           getEnv("ENVIRONMENT", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		JWTExpirationHours:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AdminPasswordHash:     getEnv("ADMIN_PASSWORD_HASH", ""),
		StoragePath:           getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:           getEnvAsInt("WORKER_COUNT", 3),
		AllowedOrigins:        getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:          getEnv("RESEND_API_KEY", ""),
		FromEmail:             getEnv("FROM_EMAIL", "noreply@ashrayhostel.in"),
		SentryDSN:             getEnv("SENTRY_DSN", ""),
		BillingTimezone:       getEnv("BILLING_TIMEZONE", "Asia/Kolkata"),
		HostelDisplayName:     getEnv("HOSTEL_DISPLAY_NAME", "Ashray Hostel"),
		RetentionDays:         getEnvAsInt("RETENTION_DAYS", 30),
		SweepIntervalMinutes:  getEnvAsInt("SWEEP_INTERVAL_MINUTES", 360),
		ReminderIntervalHours: getEnvAsInt("REMINDER_INTERVAL_HOURS", 24),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	loc, err := time.LoadLocation(cfg.BillingTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_TIMEZONE %q: %w", cfg.BillingTimezone, err)
	}
	cfg.BillingLocation = loc

	if cfg.RetentionDays <= 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be positive")
	}
	if cfg.SweepIntervalMinutes <= 0 {
		cfg.SweepIntervalMinutes = 360
	}
	if cfg.ReminderIntervalHours <= 0 {
		cfg.ReminderIntervalHours = 24
	}

	return cfg, nil
}

// EmailEnabled reports whether outbound e-mail is configured.
func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != ""
}

// RetentionAge is the age after which payment proofs are purged.
func (c *Config) RetentionAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

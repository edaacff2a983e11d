package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Upstream clinic API
	ClinicAPIBaseURL string
	ClinicAPITimeout time.Duration

	// Profile cache
	RedisAddr       string
	RedisPassword   string
	RedisTLS        bool
	ProfileCacheTTL time.Duration

	// Booking sessions
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	// CORS
	CORSAllowedOrigins string

	// SendGrid confirmation email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		ClinicAPIBaseURL: getEnv("CLINIC_API_BASE_URL", "https://clinic-backend.mylifeline.world/api/v1"),
		ClinicAPITimeout: getEnvAsDuration("CLINIC_API_TIMEOUT", 20*time.Second),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisTLS:        getEnvAsBool("REDIS_TLS", false),
		ProfileCacheTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 5*time.Minute),

		SessionTTL:           getEnvAsDuration("BOOKING_SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: getEnvAsDuration("BOOKING_SESSION_SWEEP_INTERVAL", 5*time.Minute),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Lifeline Clinics"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

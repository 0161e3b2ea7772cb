package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	QuoteBaseURL      string
	QuoteTTL          time.Duration
	QuoteFetchTimeout time.Duration
	QuoteRefreshSpec  string // cron spec; empty disables the background refresher

	// Aggregation
	PurchaseFeesOnly bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "stockfolio"),
		DBPassword: getEnv("DB_PASSWORD", "stockfolio"),
		DBName:     getEnv("DB_NAME", "stockfolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Market data
		QuoteBaseURL:     getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
		QuoteRefreshSpec: getEnv("QUOTE_REFRESH_SPEC", ""),

		// Aggregation
		PurchaseFeesOnly: getEnv("PURCHASE_FEES_ONLY", "false") == "true",
	}

	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.QuoteTTL = getEnvDuration("QUOTE_TTL", 5*time.Minute)
	config.QuoteFetchTimeout = getEnvDuration("QUOTE_FETCH_TIMEOUT", 10*time.Second)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration environment variable, falling back to
// the default on a missing or malformed value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

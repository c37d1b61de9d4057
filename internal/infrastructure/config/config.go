package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Two-factor configuration
	Issuer           string
	BackupCodeCount  int
	BackupCodeLength int

	// Bound on calls to the credential and policy stores; on expiry the
	// engine fails closed.
	StoreTimeout time.Duration
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		DBHost:     "localhost",
		DBPort:     5432,
		DBUser:     "",
		DBPassword: "",
		DBName:     "",

		Issuer:           "Admin Dashboard",
		BackupCodeCount:  10,
		BackupCodeLength: 8,

		StoreTimeout: 5 * time.Second,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "owner"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "twofactor"),

		Issuer:           getEnv("TWO_FACTOR_ISSUER", "Admin Dashboard"),
		BackupCodeCount:  getEnvInt("BACKUP_CODE_COUNT", 10),
		BackupCodeLength: getEnvInt("BACKUP_CODE_LENGTH", 8),

		StoreTimeout: storeTimeout,
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

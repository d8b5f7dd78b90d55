package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Signal store configuration
	SignalsDBPath string

	// API configuration
	APIPort int

	// Redis configuration (optional response cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Cache/refresh tuning
	CacheTTLSeconds  int
	StatsPollSeconds int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		SignalsDBPath: getEnvOrDefault("SIGNALS_DB_PATH", "public/ForexSignals.db"),

		// Port 3001 matches what the dashboard frontend expects
		APIPort: getEnvInt("API_PORT", 3001),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 5),
		StatsPollSeconds: getEnvInt("STATS_POLL_SECONDS", 10),
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// PostgreSQL (airport reference table)
	PostgresURI string

	// Redis (resolver cache, optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Discord delivery
	DiscordToken   string
	DiscordAPIBase string

	// Background loops
	AdvancerInterval time.Duration
	NotifierInterval time.Duration

	// Airport resolver
	AirportLookupURL      string
	AirportCacheTTL       time.Duration
	AirportRequestSpacing time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "aviasales"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordAPIBase: getEnv("DISCORD_API_BASE", "https://discord.com/api/v10"),

		AdvancerInterval: time.Duration(getEnvAsInt("ADVANCER_INTERVAL", 300)) * time.Second,
		NotifierInterval: time.Duration(getEnvAsInt("NOTIFIER_INTERVAL", 60)) * time.Second,

		AirportLookupURL:      getEnv("AIRPORT_LOOKUP_URL", "https://api.aviationapi.com/v1/airports"),
		AirportCacheTTL:       time.Duration(getEnvAsInt("AIRPORT_CACHE_TTL", 86400)) * time.Second,
		AirportRequestSpacing: time.Duration(getEnvAsInt("AIRPORT_REQUEST_SPACING", 2)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

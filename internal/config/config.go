package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string

	// Logging configuration
	LogFormat string
	LogLevel  string

	// Database configuration
	DatabaseURL string

	// Session configuration
	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool

	// Login throttling
	LoginRateLimit int
	LoginRateBurst int

	// Route cache configuration
	RedisURL       string
	RouteCacheTTL  time.Duration
	RouteCacheSize int
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}

	return FromEnv(), nil
}

// FromEnv builds the configuration from the current process environment
func FromEnv() *Config {
	config := &Config{
		// Server configuration
		Port:           getEnvInt("PORT", 8080),
		ReadTimeout:    time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout:   time.Duration(getEnvInt("WRITE_TIMEOUT", 15)) * time.Second,
		AllowedOrigins: getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"}),

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		// Session configuration
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SecureCookies: getEnvBool("SECURE_COOKIES", false),

		// Login throttling
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 5),
		LoginRateBurst: getEnvInt("LOGIN_RATE_BURST", 10),

		// Route cache configuration
		RedisURL:       os.Getenv("REDIS_URL"),
		RouteCacheTTL:  time.Duration(getEnvInt("ROUTE_CACHE_TTL", 300)) * time.Second,
		RouteCacheSize: getEnvInt("ROUTE_CACHE_SIZE", 256),
	}

	// Validate critical configuration
	validateConfig(config)

	return config
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.DatabaseURL == "" {
		log.Println("Warning: No POSTGRES_DB_URL provided. Database access will fail.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT_SECRET provided. Using an insecure development secret.")
		config.JWTSecret = "dev-insecure-secret-change"
	}

	if config.LogFormat != "json" && config.LogFormat != "pretty" {
		log.Printf("Invalid LOG_FORMAT %q, using json", config.LogFormat)
		config.LogFormat = "json"
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	RedisAddr       string
	BaseURL         string // Public base URL used to build reset links
	UploadDir       string // Base path for uploaded CVs and avatars
	BcryptCost      int
	JWTSecret       string
	MaintenanceCron string
	AppEnv          string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file just means plain env vars.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "12"))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./devjobs.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		BcryptCost:      cost,
		JWTSecret:       getEnv("JWT_SECRET", ""),
		MaintenanceCron: getEnv("MAINTENANCE_CRON", "@hourly"),
		AppEnv:          getEnv("APP_ENV", "development"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

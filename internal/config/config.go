package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseURL selects Postgres when set; otherwise the store runs on the
	// SQLite file at DatabasePath.
	DatabaseURL  string
	DatabasePath string

	RedisURL    string
	JWTSecret   string
	JWTExpiry   time.Duration
	Environment string

	SessionDuration time.Duration

	// Login throttling
	LoginMaxAttempts int
	LoginWindow      time.Duration
	LoginBlockTime   time.Duration
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "friend-finder.db"
	}

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: dbPath,
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTExpiry:    getEnvAsDuration("JWT_EXPIRY", "24h"),
		Environment:  os.Getenv("ENVIRONMENT"),

		SessionDuration: getEnvAsDuration("SESSION_DURATION", "24h"),

		LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 10),
		LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", "1m"),
		LoginBlockTime:   getEnvAsDuration("LOGIN_BLOCK_TIME", "5m"),
	}

	return cfg
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

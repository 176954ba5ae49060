package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Auction  AuctionConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuctionConfig struct {
	SweepInterval time.Duration
}

// Load reads configuration from the environment, falling back to a local
// .env file and sensible development defaults.
func Load() *Config {
	_ = godotenv.Load()

	accessTTL := getPositiveIntEnv("JWT_ACCESS_TTL_MINUTES", 60)
	refreshTTL := getPositiveIntEnv("JWT_REFRESH_TTL_HOURS", 168)
	sweepInterval := getPositiveIntEnv("AUCTION_SWEEP_INTERVAL_SECONDS", 60)

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "marketplace.db"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
			AccessTTL:  time.Duration(accessTTL) * time.Minute,
			RefreshTTL: time.Duration(refreshTTL) * time.Hour,
		},
		Auction: AuctionConfig{
			SweepInterval: time.Duration(sweepInterval) * time.Second,
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getPositiveIntEnv falls back to the default when the variable is unset,
// malformed or non-positive. A zero duration would break the consumers
// (instantly expired tokens, a ticker that cannot start).
func getPositiveIntEnv(key string, defaultVal int) int {
	val, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil || val <= 0 {
		return defaultVal
	}
	return val
}

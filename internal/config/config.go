package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort      string
	DatabaseURL  string
	JWTSecret    string
	TokenExpires time.Duration
	OTPBaseURL   string
	OTPTimeout   time.Duration
	PendingTTL   time.Duration
}

// Load reads environment variables and returns a populated Config.
// DATABASE_URL and JWT_SECRET have no defaults: the service refuses to
// start without them rather than run against a guessed store or sign
// tokens with a baked-in secret.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "5000"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenExpires: getEnvDuration("JWT_TTL_HOURS", 7*24) * time.Hour,
		OTPBaseURL:   getEnv("OTP_API_URL", "https://otp.dynamictech.gleeze.com"),
		OTPTimeout:   getEnvDuration("OTP_TIMEOUT_SECONDS", 15) * time.Second,
		PendingTTL:   getEnvDuration("PENDING_SIGNUP_TTL_HOURS", 24) * time.Hour,
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}

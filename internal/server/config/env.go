package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from environment variables. A .env
// file in the working directory is loaded first when present, which keeps
// local development out of shell profiles; real environments set variables
// directly.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddrHTTP, "AUTHGATE_HTTP_ADDR")
	setString(&config.DatabaseDSN, "AUTHGATE_DATABASE_DSN")
	setString(&config.RedisAddr, "AUTHGATE_REDIS_ADDR")
	setString(&config.SecretKey, "AUTHGATE_SECRET_KEY")
	setDuration(&config.SessionValidityDuration, "AUTHGATE_SESSION_VALIDITY")
	setInt(&config.BcryptCost, "AUTHGATE_BCRYPT_COST")
	setInt64(&config.SignInLimit, "AUTHGATE_SIGNIN_LIMIT")
	setDuration(&config.SignInWindow, "AUTHGATE_SIGNIN_WINDOW")
	setInt64(&config.SignUpLimit, "AUTHGATE_SIGNUP_LIMIT")
	setDuration(&config.SignUpWindow, "AUTHGATE_SIGNUP_WINDOW")
	setString(&config.CORSAllowedOrigins, "AUTHGATE_CORS_ORIGINS")
	setBool(&config.DevMode, "AUTHGATE_DEV_MODE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

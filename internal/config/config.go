package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the process reads from the environment at startup.
// It is loaded once in main and passed explicitly into constructors.
type Config struct {
	MongoURL        string
	DBName          string
	ServerPort      string
	JWTSecret       string
	TokenTTLSeconds int64
}

const defaultTokenTTLSeconds = 172800 // 48 hours

// Load reads configuration from environment variables
func Load() (*Config, error) {
	mongoURL := os.Getenv("MONGODB_URL")
	if mongoURL == "" {
		return nil, fmt.Errorf("MONGODB_URL not set in environment")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "accounts"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	ttl := int64(defaultTokenTTLSeconds)
	if ttlStr := os.Getenv("TOKEN_TTL_SECONDS"); ttlStr != "" {
		parsed, err := strconv.ParseInt(ttlStr, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_SECONDS %q", ttlStr)
		}
		ttl = parsed
	}

	return &Config{
		MongoURL:        mongoURL,
		DBName:          dbName,
		ServerPort:      port,
		JWTSecret:       secret,
		TokenTTLSeconds: ttl,
	}, nil
}

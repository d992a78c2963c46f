package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"fsanano/foodexpress/internal/cart"
)

type Config struct {
	ServerPort string
	// DatabaseURL is optional; when set the auth token is kept in PostgreSQL instead of TokenFile.
	DatabaseURL string

	API struct {
		URL        string
		Timeout    time.Duration
		ListingTTL time.Duration
	}

	Session struct {
		TokenFile string
		Profile   string
	}

	CartPolicy cart.Policy
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	cfg.API.URL = os.Getenv("API_URL")
	if cfg.API.URL == "" {
		return nil, fmt.Errorf("API_URL must be set")
	}

	var err error
	if cfg.API.Timeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.API.ListingTTL, err = getDuration("LISTING_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.Session.TokenFile = os.Getenv("TOKEN_FILE")
	if cfg.Session.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("TOKEN_FILE must be set: %w", err)
		}
		cfg.Session.TokenFile = filepath.Join(dir, "foodexpress", "token")
	}
	cfg.Session.Profile = getEnv("SESSION_PROFILE", "default")

	if cfg.CartPolicy, err = cart.ParsePolicy(os.Getenv("CART_POLICY")); err != nil {
		return nil, fmt.Errorf("CART_POLICY: %w", err)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

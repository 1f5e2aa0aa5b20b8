package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"logwindow/timerange"
)

const (
	defaultRedisURL = "redis://localhost:6379/0"
	defaultPort     = "8080"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        string

	// DefaultTimezone is the location "auto" selections resolve in.
	DefaultTimezone *time.Location
	// SelectionTTL expires stored selections; zero keeps them forever.
	SelectionTTL time.Duration
}

// Load reads a .env file if one exists, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getenv("REDIS_URL", defaultRedisURL),
		Port:        getenv("PORT", defaultPort),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	tz := getenv("DEFAULT_TIMEZONE", timerange.ZoneUTC)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE %q: %w", tz, err)
	}
	cfg.DefaultTimezone = loc

	if v := os.Getenv("SELECTION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SELECTION_TTL: %w", err)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("SELECTION_TTL must not be negative")
		}
		cfg.SelectionTTL = ttl
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

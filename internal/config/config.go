// Package config loads environment driven configuration for the timeclock
// service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the environment values the service needs to start.
type Config struct {
	HTTPPort    int           `env:"TIMECLOCK_HTTP_PORT" envDefault:"8080"`
	SQLitePath  string        `env:"TIMECLOCK_SQLITE_PATH" envDefault:"timeclock.db"`
	TokenSecret string        `env:"TIMECLOCK_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TIMECLOCK_TOKEN_TTL" envDefault:"24h"`
}

// Load parses configuration from the process environment, applying defaults
// for optional fields and rejecting missing or invalid required values.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HTTPPort <= 0 {
		return Config{}, fmt.Errorf("TIMECLOCK_HTTP_PORT must be positive")
	}
	if strings.TrimSpace(cfg.SQLitePath) == "" {
		return Config{}, fmt.Errorf("TIMECLOCK_SQLITE_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return Config{}, fmt.Errorf("TIMECLOCK_TOKEN_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("TIMECLOCK_TOKEN_TTL must be positive")
	}
	return cfg, nil
}

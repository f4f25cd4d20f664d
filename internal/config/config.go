package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	JWTSecret      string        `env:"APP_JWT_SECRET"`
	TokenTTL       time.Duration `env:"APP_TOKEN_TTL" envDefault:"168h"`
	ProfileTimeout time.Duration `env:"APP_PROFILE_TIMEOUT" envDefault:"3s"`
	SeedDemoData   bool          `env:"APP_SEED_DEMO_DATA" envDefault:"true"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("APP_JWT_SECRET environment variable is required")
	}

	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// AuthMode selects how callers are identified. Both modes read the
	// X-Debug-Subject/X-Debug-Role headers; sessions are terminated upstream.
	// "dev" additionally falls back to DevSubject when the header is absent,
	// "header" requires the upstream proxy to set it on every request.
	AuthMode   string `env:"AUTH_MODE" envDefault:"dev"`
	DevSubject string `env:"DEV_SUBJECT" envDefault:"dev|local"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	DraftBackend string        `env:"DRAFT_BACKEND" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DraftTTL     time.Duration `env:"DRAFT_TTL" envDefault:"720h"`

	// Defaults prefilled on a fresh draft's first parent entry.
	DefaultPostalCode   int    `env:"DEFAULT_POSTAL_CODE"`
	DefaultMunicipality string `env:"DEFAULT_MUNICIPALITY"`
}

// Load reads the configuration from the environment and validates the
// backend selections.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.AuthMode {
	case "dev", "header":
	default:
		return Config{}, fmt.Errorf("unknown AUTH_MODE %q (want dev or header)", cfg.AuthMode)
	}

	switch cfg.StorageBackend {
	case "memory", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want memory or postgres)", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
	}

	switch cfg.DraftBackend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unknown DRAFT_BACKEND %q (want memory or redis)", cfg.DraftBackend)
	}
	if cfg.DraftTTL <= 0 {
		return Config{}, fmt.Errorf("DRAFT_TTL must be positive")
	}

	return cfg, nil
}

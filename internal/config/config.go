// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string        `env:"ADDR" envDefault:":8080"`
	DBDriver   string        `env:"DB_DRIVER" envDefault:"sqlite3"`
	DBConn     string        `env:"DB_CONN" envDefault:"./notas.db"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	StaticDir  string        `env:"STATIC_DIR" envDefault:"./static"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

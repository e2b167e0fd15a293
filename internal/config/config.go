// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

// Config is the server configuration. Flags in cmd/server may override it.
type Config struct {
	Addr        string        `env:"ROOMDRAW_ADDR"         envDefault:":8080"`
	DBPath      string        `env:"DB_PATH"               envDefault:"./data/roomdraw.db"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"             envDefault:"24h"`
	LogLevel    string        `env:"LOG_LEVEL"             envDefault:"info"`
	LotterySeed uint64        `env:"ROOMDRAW_LOTTERY_SEED"`
	MetricsPath string        `env:"ROOMDRAW_METRICS_PATH" envDefault:"/metrics"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Addr == "" {
		result = multierror.Append(result, errors.New("listen address is required"))
	}
	if c.DBPath == "" {
		result = multierror.Append(result, errors.New("database path is required"))
	}
	if c.JWTSecret == "" {
		result = multierror.Append(result, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}
	return result.ErrorOrNil()
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every interleave command.
// Cobra flags override the values read from the environment.
type Config struct {
	LogLevel      string        `env:"INTERLEAVE_LOG_LEVEL" envDefault:"info"`
	LogJSON       bool          `env:"INTERLEAVE_LOG_JSON" envDefault:"false"`
	MaxStates     int           `env:"INTERLEAVE_MAX_STATES" envDefault:"100000"`
	MaxIterations int           `env:"INTERLEAVE_MAX_ITERATIONS" envDefault:"1000000"`
	Timeout       time.Duration `env:"INTERLEAVE_TIMEOUT" envDefault:"5m"`
	ModelsDir     string        `env:"INTERLEAVE_MODELS_DIR" envDefault:"."`
	HTTPAddr      string        `env:"INTERLEAVE_HTTP_ADDR" envDefault:":8080"`
	RedisAddr     string        `env:"INTERLEAVE_REDIS_ADDR"`
	ReportTTL     time.Duration `env:"INTERLEAVE_REPORT_TTL" envDefault:"24h"`
	Watch         bool          `env:"INTERLEAVE_WATCH" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration read from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.MaxStates < 0 || cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("parse env: limits must not be negative")
	}
	return &cfg, nil
}

// Package config loads command configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/robert-malhotra/go-twreplay/replay"
)

// Config is shared by the commands. Flags override these values.
type Config struct {
	// Workers bounds concurrent decodes when indexing.
	Workers int `env:"TWREPLAY_WORKERS" envDefault:"4"`

	// DBPath is the replay catalog database.
	DBPath string `env:"TWREPLAY_DB" envDefault:"replays.db"`

	MaxDepth         int  `env:"TWREPLAY_MAX_DEPTH" envDefault:"256"`
	Int64Placeholder bool `env:"TWREPLAY_INT64_PLACEHOLDER" envDefault:"false"`

	// OTelEndpoint enables tracing when set, e.g. http://localhost:4318.
	OTelEndpoint string `env:"TWREPLAY_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"TWREPLAY_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("parse env: TWREPLAY_WORKERS must be at least 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

// DecodeOptions converts the decode settings to replay options.
func (c Config) DecodeOptions() []replay.Option {
	opts := []replay.Option{replay.WithMaxDepth(c.MaxDepth)}
	if c.Int64Placeholder {
		opts = append(opts, replay.WithInt64Placeholder())
	}
	return opts
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

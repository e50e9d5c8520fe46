// Package config assembles the scanner configuration from the environment.
//
// Every field can be set through an environment variable; a .env file in
// the working directory is picked up by the commands before loading.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"

	"github.com/robert-herzig/raspi-pen/pkg/capture"
	"github.com/robert-herzig/raspi-pen/pkg/decode"
	"github.com/robert-herzig/raspi-pen/pkg/scanner"
)

// Config is the full configuration for the qrscan command.
type Config struct {
	// LogLevel sets the slog level: debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level" env:"LOG_LEVEL" envDefault:"info"`

	Camera  capture.Config `yaml:"camera" json:"camera"`
	Decoder decode.Config  `yaml:"decoder" json:"decoder"`
	Scanner scanner.Config `yaml:"scanner" json:"scanner"`
}

// Default returns the configuration with all defaults applied.
func Default() Config {
	return Config{
		LogLevel: "info",
		Camera:   capture.DefaultConfig(),
		Decoder:  decode.DefaultConfig(),
		Scanner:  scanner.DefaultConfig(),
	}
}

// Load builds the configuration from defaults overlaid with environment
// variables.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if err := c.Camera.Validate(); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if err := c.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := c.Scanner.Validate(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	return nil
}

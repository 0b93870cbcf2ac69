package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/db47h/pulsesim"
)

// Config holds the defaults used by the commands. Flags override it.
type Config struct {
	Presses        uint64 `yaml:"presses" validate:"gte=1"`
	Target         string `yaml:"target" validate:"required"`
	Limit          uint64 `yaml:"limit" validate:"gte=1"`
	Workers        int    `yaml:"workers" validate:"gte=0"`
	AssumeCounters bool   `yaml:"assume_counters"`
	LogLevel       string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Presses:  1000,
		Target:   "rx",
		Limit:    pulsesim.DefaultLimit,
		LogLevel: "warn",
	}
}

var validate = validator.New()

// LoadConfig reads a YAML configuration file. Missing keys keep their
// default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelWarn
	}
	return l
}

func (c *Config) solveOptions(log *slog.Logger) pulsesim.SolveOptions {
	return pulsesim.SolveOptions{
		Limit:          c.Limit,
		Workers:        c.Workers,
		AssumeCounters: c.AssumeCounters,
		Logger:         log,
	}
}

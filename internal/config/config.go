// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mmynk/eventsplit/internal/money"
	"github.com/mmynk/eventsplit/pkg/logging"
)

type Config struct {
	// HTTP Server
	Port            int           `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DBPath string `env:"DB_PATH" envDefault:"./data/eventsplit.db"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Money
	CurrencyPlaces  int32  `env:"CURRENCY_PLACES" envDefault:"2"`
	RoundingMode    string `env:"ROUNDING_MODE" envDefault:"half-up"`
	AmountMaxDigits int32  `env:"AMOUNT_MAX_DIGITS" envDefault:"10"`
}

// Load reads an optional dotenv file and then the environment.
// With no files given, ./.env is used if it exists.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err.Error())
	}

	if _, err := c.Policy(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Policy builds the rounding policy described by the configuration.
func (c *Config) Policy() (money.Policy, error) {
	mode, err := money.ParseMode(c.RoundingMode)
	if err != nil {
		return money.Policy{}, err
	}
	policy := money.Policy{
		Places:    c.CurrencyPlaces,
		Mode:      mode,
		MaxDigits: c.AmountMaxDigits,
	}
	if err := policy.Validate(); err != nil {
		return money.Policy{}, err
	}
	return policy, nil
}

// LogValue implements slog.LogValuer.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.Duration("shutdown_timeout", c.ShutdownTimeout),
		slog.String("db_path", c.DBPath),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.Int("currency_places", int(c.CurrencyPlaces)),
		slog.String("rounding_mode", c.RoundingMode),
		slog.Int("amount_max_digits", int(c.AmountMaxDigits)),
	)
}

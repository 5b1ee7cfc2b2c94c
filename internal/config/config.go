// Package config loads the settings of the soldi command.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/nick-codes/soldi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by [Load].
const EnvPrefix = "SOLDI"

// ErrInvalidConfig is returned when a setting has an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the command settings.
type Config struct {
	Currency  string `mapstructure:"currency"`
	Rounding  string `mapstructure:"rounding"`
	RatesFile string `mapstructure:"rates_file"`
	LogLevel  string `mapstructure:"log_level"`
}

// Load reads the settings from, in increasing priority, the defaults, the
// config file at path if one is given, and SOLDI_* environment variables.
// A .env file in the working directory is loaded into the environment
// first when present.
func Load(path string) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("currency", "USD")
	v.SetDefault("rounding", string(soldi.DefaultRoundingMode))
	v.SetDefault("rates_file", "")
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %v: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := soldi.ParseCurr(c.Currency); err != nil {
		return fmt.Errorf("%w: currency: %w", ErrInvalidConfig, err)
	}
	if _, err := soldi.ParseRoundingMode(c.Rounding); err != nil {
		return fmt.Errorf("%w: rounding: %w", ErrInvalidConfig, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RoundingMode returns the configured rounding mode.
func (c *Config) RoundingMode() soldi.RoundingMode {
	m, err := soldi.ParseRoundingMode(c.Rounding)
	if err != nil {
		return soldi.DefaultRoundingMode
	}
	return m
}

// Level returns the configured log level.
func (c *Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return l
}

// Package config loads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of intakeforge.
type Config struct {
	AnalysisURL     string        `mapstructure:"ANALYSIS_URL"`
	AnalysisTimeout time.Duration `mapstructure:"ANALYSIS_TIMEOUT"`
	AnalysisRetries int           `mapstructure:"ANALYSIS_RETRIES"`
	MaxImageSize    string        `mapstructure:"MAX_IMAGE_SIZE"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFile         string        `mapstructure:"LOG_FILE"`
}

// Load reads configuration from the environment, with a .env file as an
// optional source. Missing settings fall back to defaults; ANALYSIS_URL is
// only required when a submission is attempted.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ANALYSIS_TIMEOUT", "60s")
	v.SetDefault("ANALYSIS_RETRIES", 2)
	v.SetDefault("MAX_IMAGE_SIZE", "10MiB")
	v.SetDefault("LOG_LEVEL", "info")

	v.BindEnv("ANALYSIS_URL")
	v.BindEnv("ANALYSIS_TIMEOUT")
	v.BindEnv("ANALYSIS_RETRIES")
	v.BindEnv("MAX_IMAGE_SIZE")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FILE")

	// The .env file is optional.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := cfg.MaxImageBytes(); err != nil {
		return nil, err
	}
	if cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("ANALYSIS_TIMEOUT must be positive")
	}

	return cfg, nil
}

// MaxImageBytes parses the human-readable MAX_IMAGE_SIZE setting
// (e.g. "10MiB", "2 MB") into a byte count.
func (c *Config) MaxImageBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.MaxImageSize)
	if err != nil {
		return 0, fmt.Errorf("invalid MAX_IMAGE_SIZE %q: %w", c.MaxImageSize, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("MAX_IMAGE_SIZE must be greater than zero")
	}
	return int64(n), nil
}

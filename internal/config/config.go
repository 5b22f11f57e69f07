// Package config loads the evaluation run configuration from a YAML file,
// with environment variable overrides layered on top.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/petrofore/wellrisk/pkg/errors"
	"github.com/petrofore/wellrisk/risk"
)

// DefaultSeed is used when neither an explicit seed nor the SEED environment
// variable is provided.
const DefaultSeed = 42

// Config holds the full application configuration.
type Config struct {
	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Data struct {
		// Dir contains one CSV per region.
		Dir string `yaml:"dir"`
		// Regions lists the region file names (without directory).
		Regions []string `yaml:"regions"`
		// ValidationFraction is the share of rows held out for evaluation.
		ValidationFraction float64 `yaml:"validation_fraction"`
	} `yaml:"data"`

	Risk risk.Config `yaml:"risk"`

	// MaxLossProbability is the decision rule: a region is rejected when its
	// estimated loss probability exceeds this threshold.
	MaxLossProbability float64 `yaml:"max_loss_probability"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Load reads the YAML file at path and applies environment overrides.
// A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	// Ignore a missing .env; it is optional local convenience.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, op)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Data.ValidationFraction = 0.25
	cfg.Risk = risk.Config{
		Iterations:      1000,
		WellsToSelect:   200,
		ConfidenceLevel: 0.95,
		Seed:            DefaultSeed,
	}
	cfg.MaxLossProbability = 0.025
	cfg.Server.Addr = ":8080"
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Risk.Seed = seed
		}
	}
	if v := os.Getenv("WELLRISK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WELLRISK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// ResolveSeed returns the seed to use for a run.
// Priority: explicit flag > SEED environment variable > default (42).
// A zero explicit value means "not provided".
func ResolveSeed(explicit int64) int64 {
	if explicit != 0 {
		return explicit
	}
	if v := os.Getenv("SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return seed
		}
	}
	return DefaultSeed
}

// Validate checks the parts of the configuration the loader owns. The risk
// parameters themselves are validated again by risk.Run against the dataset.
func (c *Config) Validate() error {
	const op = "config.Validate"

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigurationError(op, "log.level", "must be one of debug, info, warn, error", c.Log.Level)
	}

	if c.Data.Dir == "" {
		return errors.NewConfigurationError(op, "data.dir", "must be set", c.Data.Dir)
	}
	if len(c.Data.Regions) == 0 {
		return errors.NewConfigurationError(op, "data.regions", "at least one region is required", len(c.Data.Regions))
	}
	if c.Data.ValidationFraction <= 0 || c.Data.ValidationFraction >= 1 {
		return errors.NewConfigurationError(op, "data.validation_fraction", "must be in (0, 1)", c.Data.ValidationFraction)
	}
	if c.MaxLossProbability < 0 || c.MaxLossProbability > 1 {
		return errors.NewConfigurationError(op, "max_loss_probability", "must be in [0, 1]", c.MaxLossProbability)
	}
	if c.Server.Addr == "" {
		return errors.NewConfigurationError(op, "server.addr", "must be set", c.Server.Addr)
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	DataFile   string `mapstructure:"PATIENTDESK_DATA_FILE"`
	Env        string `mapstructure:"ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFile    string `mapstructure:"LOG_FILE"`
	StrictLoad bool   `mapstructure:"STRICT_LOAD"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PATIENTDESK_DATA_FILE", "patients.txt")
	v.SetDefault("ENV", "production")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("STRICT_LOAD", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PATIENTDESK_DATA_FILE")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("LOG_FILE")
	v.BindEnv("STRICT_LOAD")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the zerolog level for LOG_LEVEL.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("PATIENTDESK_DATA_FILE must not be empty")
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", c.LogLevel, err)
		}
	}
	return nil
}

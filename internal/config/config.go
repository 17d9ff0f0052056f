// Package config provides Viper-based hierarchical configuration management.
// Values are resolved from defaults, then an optional config.yaml, then
// FINANCE_* environment variables (a .env file is loaded into the environment first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// EnvPrefix prefixes every environment variable read by the application
const EnvPrefix = "FINANCE"

// Config represents the complete application configuration
type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Data struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"data"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Rates struct {
		URL        string        `mapstructure:"url"`
		Timeout    time.Duration `mapstructure:"timeout"`
		MaxAge     time.Duration `mapstructure:"max_age"`
		MaxRetries int           `mapstructure:"max_retries"`
	} `mapstructure:"rates"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter"`
	} `mapstructure:"csv"`

	Dashboard struct {
		Window int `mapstructure:"window"`
	} `mapstructure:"dashboard"`
}

// Load reads the configuration. configFile may be empty to search the default locations.
func Load(configFile string) (*Config, error) {
	loadEnv()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnv loads variables from .env if present, without overriding the real environment
func loadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("data.dir", "./data")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("rates.url", "https://api.exchangerate-api.com/v4/latest/USD")
	v.SetDefault("rates.timeout", 10*time.Second)
	v.SetDefault("rates.max_age", entity.RateMaxAge)
	v.SetDefault("rates.max_retries", 3)
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("dashboard.window", 3)
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	if c.Rates.URL == "" {
		return fmt.Errorf("rates.url must not be empty")
	}
	if c.Rates.Timeout <= 0 || c.Rates.MaxAge <= 0 {
		return fmt.Errorf("rates.timeout and rates.max_age must be positive")
	}
	if c.Rates.MaxRetries < 0 {
		return fmt.Errorf("rates.max_retries must not be negative, got: %d", c.Rates.MaxRetries)
	}

	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", c.CSV.Delimiter)
	}

	if c.Dashboard.Window < 1 {
		return fmt.Errorf("dashboard.window must be at least 1, got: %d", c.Dashboard.Window)
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Package config loads the service configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Spanner    SpannerConfig    `mapstructure:"spanner"`
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SpannerConfig holds the Cloud Spanner connection configuration.
type SpannerConfig struct {
	Database string `mapstructure:"database"`
}

// ReconcilerConfig holds the reconciliation job configuration.
type ReconcilerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	RunStateTTL time.Duration `mapstructure:"run_state_ttl"`
}

// PricingConfig holds price computation configuration.
type PricingConfig struct {
	// Scale is the number of decimal places of the currency minor unit.
	Scale int `mapstructure:"scale"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads the configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PRICING_SERVICE")
	bindEnvVars(v)

	// Config file is optional; defaults and env vars carry a bare deployment.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("spanner.database", "SPANNER_DATABASE")
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Default for local development with the Spanner emulator
	v.SetDefault("spanner.database", "projects/test-project/instances/dev-instance/databases/campaign-pricing-db")

	v.SetDefault("reconciler.interval", 1*time.Minute)
	v.SetDefault("reconciler.run_state_ttl", 15*time.Minute)

	v.SetDefault("pricing.scale", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

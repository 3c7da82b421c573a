package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the gobootd configuration, loaded from file and environment.
type Config struct {
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`

	Telemetry struct {
		Enabled    bool    `mapstructure:"enabled"`
		Endpoint   string  `mapstructure:"endpoint"`
		Insecure   bool    `mapstructure:"insecure"`
		SampleRate float64 `mapstructure:"sample_rate"`
	} `mapstructure:"telemetry"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Components struct {
		DenyPrefixes []string `mapstructure:"deny_prefixes"`
	} `mapstructure:"components"`
}

// loadConfig reads gobootd.yaml (or the file given with --config) and applies
// GOBOOTD_* environment overrides. A missing default config file is fine;
// defaults cover a local run.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("components.deny_prefixes", []string{"vendor.", "framework."})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gobootd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/gobootd")
	}

	v.SetEnvPrefix("GOBOOTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

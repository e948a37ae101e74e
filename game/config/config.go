package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Secret sources
const (
	SecretSourceTime   = "time"
	SecretSourceRandom = "random"
)

// Telemetry sources
const (
	TelemetryNone   = "none"
	TelemetryStatic = "static"
	TelemetryProc   = "proc"
)

// Config is the server configuration
type Config struct {
	Host         string          `yaml:"host"`
	Port         int             `yaml:"port"`
	Debug        bool            `yaml:"debug"`
	SecretSource string          `yaml:"secret_source"`
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
	Telemetry    TelemetryConfig `yaml:"telemetry"`
	Ngrok        NgrokConfig     `yaml:"ngrok"`
}

// TelemetryConfig selects where station signal strength comes from
type TelemetryConfig struct {
	Source    string `yaml:"source"`
	RSSI      int    `yaml:"rssi"`      // static source
	Interface string `yaml:"interface"` // proc source
	Path      string `yaml:"path"`      // proc source, defaults to /proc/net/wireless
}

// NgrokConfig controls the optional public tunnel
type NgrokConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AuthToken string `yaml:"authtoken"`
	Domain    string `yaml:"domain"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Host:         "localhost",
		Port:         8080,
		SecretSource: SecretSourceTime,
		WriteTimeout: 10 * time.Second,
		Telemetry: TelemetryConfig{
			Source: TelemetryNone,
			Path:   "/proc/net/wireless",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.SecretSource {
	case SecretSourceTime, SecretSourceRandom:
	default:
		return fmt.Errorf("%w: unknown secret_source %q", ErrInvalidConfig, c.SecretSource)
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}

	switch c.Telemetry.Source {
	case TelemetryNone, TelemetryStatic:
	case TelemetryProc:
		if c.Telemetry.Path == "" {
			return fmt.Errorf("%w: telemetry path required for proc source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown telemetry source %q", ErrInvalidConfig, c.Telemetry.Source)
	}

	return nil
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guessgame.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, SecretSourceTime, cfg.SecretSource)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Zero(t, cfg.ReadTimeout)
	assert.Equal(t, TelemetryNone, cfg.Telemetry.Source)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
host: 0.0.0.0
port: 9090
debug: true
secret_source: random
read_timeout: 2m
write_timeout: 5s
telemetry:
  source: proc
  interface: wlan0
ngrok:
  enabled: true
  domain: guess.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, SecretSourceRandom, cfg.SecretSource)
	assert.Equal(t, 2*time.Minute, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, TelemetryProc, cfg.Telemetry.Source)
	assert.Equal(t, "wlan0", cfg.Telemetry.Interface)
	assert.Equal(t, "/proc/net/wireless", cfg.Telemetry.Path, "unset keys keep defaults")
	assert.True(t, cfg.Ngrok.Enabled)
	assert.Equal(t, "guess.example.com", cfg.Ngrok.Domain)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "port: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "secret_source: dice\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative port", func(c *Config) { c.Port = -1 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"unknown secret source", func(c *Config) { c.SecretSource = "" }},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -time.Second }},
		{"negative write timeout", func(c *Config) { c.WriteTimeout = -time.Second }},
		{"unknown telemetry source", func(c *Config) { c.Telemetry.Source = "gps" }},
		{"proc without path", func(c *Config) {
			c.Telemetry.Source = TelemetryProc
			c.Telemetry.Path = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("static telemetry", func(t *testing.T) {
		cfg := Default()
		cfg.Telemetry.Source = TelemetryStatic
		cfg.Telemetry.RSSI = -48
		assert.NoError(t, cfg.Validate())
	})
}

// Package config loads devportal configuration from a YAML file with an
// environment overlay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config is the full devportal configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Supabase     SupabaseConfig     `yaml:"supabase"`
	Auth         AuthConfig         `yaml:"auth"`
	Verification VerificationConfig `yaml:"verification"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr               string   `yaml:"addr"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerSec    float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	ShutdownTimeoutSec int      `yaml:"shutdown_timeout_sec"`
}

// ShutdownTimeout returns the graceful-shutdown window.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// SupabaseConfig configures the backend connection.
type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`
}

// AuthConfig configures bearer-token verification.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// VerificationConfig configures the phone-verification channel.
type VerificationConfig struct {
	Bot string `yaml:"bot"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// envOverrides are environment variables layered on top of the file.
type envOverrides struct {
	Addr        string `env:"DEVPORTAL_ADDR,default="`
	SupabaseURL string `env:"SUPABASE_URL,default="`
	ServiceKey  string `env:"SUPABASE_SERVICE_KEY,default="`
	JWTSecret   string `env:"DEVPORTAL_JWT_SECRET,default="`
	LogLevel    string `env:"DEVPORTAL_LOG_LEVEL,default="`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8090",
			AllowedOrigins:     []string{"*"},
			RateLimitPerSec:    20,
			RateLimitBurst:     40,
			ShutdownTimeoutSec: 10,
		},
		Verification: VerificationConfig{Bot: "zenhub_verifier_bot"},
		Logging:      LoggingConfig{Level: "info"},
	}
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(cfg)

	if cfg.Server.Addr == "" {
		return nil, fmt.Errorf("server addr is required")
	}
	return cfg, nil
}

// LoadOrDefault loads the file or falls back to defaults plus environment
// overrides when it does not exist.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}

func applyEnv(cfg *Config) {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil {
		return
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.SupabaseURL != "" {
		cfg.Supabase.URL = env.SupabaseURL
	}
	if env.ServiceKey != "" {
		cfg.Supabase.ServiceKey = env.ServiceKey
	}
	if env.JWTSecret != "" {
		cfg.Auth.JWTSecret = env.JWTSecret
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
	}
}

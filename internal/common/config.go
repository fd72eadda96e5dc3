// Package common provides shared utilities for FinSight
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the FinSight notification service
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Digest      DigestConfig  `toml:"digest"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub FinnhubConfig `toml:"finnhub"`
	Gemini  GeminiConfig  `toml:"gemini"`
	SMTP    SMTPConfig    `toml:"smtp"`
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

// DigestConfig holds digest pipeline configuration
type DigestConfig struct {
	Schedule        string `toml:"schedule"`          // interval between scheduled digest runs, e.g. "24h"
	MaxArticles     int    `toml:"max_articles"`      // per-recipient article cap
	SendConcurrency int    `toml:"send_concurrency"`  // delivery worker pool size
	SendTimeout     string `toml:"send_timeout"`      // per-recipient delivery timeout
	NewsLookback    int    `toml:"news_lookback_days"`
}

// GetSchedule parses and returns the scheduled-run interval
func (c *DigestConfig) GetSchedule() time.Duration {
	d, err := time.ParseDuration(c.Schedule)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetSendTimeout parses and returns the per-recipient delivery timeout
func (c *DigestConfig) GetSendTimeout() time.Duration {
	d, err := time.ParseDuration(c.SendTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds JWT session configuration
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "finsight",
			Database:  "finsight",
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash-lite",
			},
			SMTP: SMTPConfig{
				Host:     "smtp.gmail.com",
				Port:     587,
				From:     "finsight@noreply.com",
				FromName: "FinSight",
			},
		},
		Digest: DigestConfig{
			Schedule:        "24h",
			MaxArticles:     6,
			SendConcurrency: 4,
			SendTimeout:     "30s",
			NewsLookback:    5,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIGHT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINSIGHT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("FINSIGHT_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if v := os.Getenv("FINSIGHT_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FINSIGHT_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("FINSIGHT_SMTP_HOST"); v != "" {
		config.Clients.SMTP.Host = v
	}
	if v := os.Getenv("FINSIGHT_SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Clients.SMTP.Port = p
		}
	}
	if v := os.Getenv("FINSIGHT_SMTP_USERNAME"); v != "" {
		config.Clients.SMTP.Username = v
	}
	if v := os.Getenv("FINSIGHT_SMTP_PASSWORD"); v != "" {
		config.Clients.SMTP.Password = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables with a config fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"finnhub_api_key": {"FINNHUB_API_KEY", "FINSIGHT_FINNHUB_API_KEY"},
		"gemini_api_key":  {"GEMINI_API_KEY", "FINSIGHT_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

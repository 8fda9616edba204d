package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ModelConfig is one entry of the model picker.
type ModelConfig struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type GeminiConfig struct {
	APIKey         string        `json:"api_key"`
	BaseURL        string        `json:"base_url"`
	TimeoutSeconds int           `json:"timeout_seconds"`
	MaxConcurrent  int           `json:"max_concurrent"`
	Models         []ModelConfig `json:"models"`
}

// Timeout returns the per-call upstream timeout.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type Config struct {
	Server struct {
		Host              string `json:"host"`
		Port              int    `json:"port"`
		Subpath           string `json:"subpath"`
		SessionSecret     string `json:"sessionSecret"`
		SessionTTLMinutes int    `json:"session_ttl_minutes"`
	} `json:"server"`
	Gemini GeminiConfig `json:"gemini"`
	Redis  struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Database struct {
		Driver string `json:"driver"` // "postgres" or "sqlite"
		DSN    string `json:"dsn"`
	} `json:"database"`
	Logging struct {
		Level  string `json:"level"`
		Format string `json:"format"`
		Output string `json:"output"`
	} `json:"logging"`
}

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultPort          = 8080
)

// SessionTTL is how long tab state and the session cookie survive without activity.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLMinutes) * time.Minute
}

// ApplyDefaults fills zero values. LoadConfig calls it; tests that build a
// Config by hand can call it too.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.SessionTTLMinutes <= 0 {
		c.Server.SessionTTLMinutes = 30
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = DefaultGeminiBaseURL
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = 30
	}
	if c.Gemini.MaxConcurrent <= 0 {
		c.Gemini.MaxConcurrent = 5
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads the JSON config from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		if c.Gemini.APIKey == "" {
			c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
		}
		if c.Server.SessionSecret == "" {
			cfgErr = errors.New("sessionSecret must be set in config")
			return
		}
		c.ApplyDefaults()
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}

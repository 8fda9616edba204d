package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, raw string) string {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(tmp, []byte(raw), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	return tmp
}

func TestLoadConfig_Valid(t *testing.T) {
	ResetConfigForTest()
	tmp := writeConfig(t, `{
		"server": {
			"host": "localhost",
			"port": 9090,
			"subpath": "/swarm",
			"sessionSecret": "mysecret"
		},
		"gemini": {
			"api_key": "abc",
			"models": [{"name": "gemini-pro", "label": "Gemini Pro"}]
		},
		"redis": {
			"addr": "localhost:6379",
			"db": 0
		}
	}`)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Gemini.APIKey != "abc" {
		t.Errorf("api key not loaded")
	}
	if cfg.Gemini.Models[0].Name != "gemini-pro" {
		t.Errorf("models not loaded")
	}
	if GetConfig() != cfg {
		t.Errorf("GetConfig should return the loaded config")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfigForTest()
	tmp := writeConfig(t, `{"server": {"sessionSecret": "s"}}`)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Gemini.BaseURL != DefaultGeminiBaseURL {
		t.Errorf("expected default base url, got %q", cfg.Gemini.BaseURL)
	}
	if cfg.Gemini.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Gemini.Timeout())
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %s", cfg.SessionTTL())
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver by default, got %q", cfg.Database.Driver)
	}
}

func TestLoadConfig_APIKeyFromEnv(t *testing.T) {
	ResetConfigForTest()
	t.Setenv("GEMINI_API_KEY", "from-env")
	tmp := writeConfig(t, `{"server": {"sessionSecret": "s"}}`)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("expected key from environment, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	ResetConfigForTest()
	tmp := writeConfig(t, `{"server": {"port": 8080}}`)

	if _, err := LoadConfig(tmp); err == nil {
		t.Errorf("expected error when sessionSecret is missing")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfigForTest()
	_, err := LoadConfig("no_such_config.json")
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	ResetConfigForTest()
	tmp := writeConfig(t, `{this is not json}`)

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":3001" {
		t.Errorf("expected :3001, got %s", cfg.Listen)
	}
	if cfg.Calculator.Timezone != "Asia/Seoul" {
		t.Errorf("expected Asia/Seoul, got %s", cfg.Calculator.Timezone)
	}
	if cfg.Consultation.MaxTokens != 500 {
		t.Errorf("expected 500 max tokens, got %d", cfg.Consultation.MaxTokens)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-123")

	path := writeConfig(t, `
listen: ":9090"
log:
  level: debug
  format: console
cache:
  backend: sqlite
  sqlite_path: "test.db"
calculator:
  timeout: 30s
consultation:
  provider: anthropic
  model: claude-3-5-haiku-latest
  api_key: ${TEST_API_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("expected console format, got %s", cfg.Log.Format)
	}
	if cfg.Cache.Backend != BackendSQLite || cfg.Cache.SQLitePath != "test.db" {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Calculator.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Calculator.Timeout)
	}
	// Unset fields keep their defaults.
	if cfg.Calculator.Tool != "get_bazi_details" {
		t.Errorf("expected default tool, got %s", cfg.Calculator.Tool)
	}
	if cfg.Consultation.APIKey != "sk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.Consultation.APIKey)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("expected redis backend, got %s", cfg.Cache.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "listen: [unclosed"))
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache backend"},
		{"sqlite without path", func(c *Config) { c.Cache.Backend = BackendSQLite; c.Cache.SQLitePath = "" }, "sqlite_path"},
		{"zero dial timeout", func(c *Config) { c.Cache.Redis.DialTimeout = 0 }, "dial_timeout"},
		{"no command", func(c *Config) { c.Calculator.Command = "" }, "calculator.command"},
		{"zero calculator timeout", func(c *Config) { c.Calculator.Timeout = 0 }, "calculator.timeout"},
		{"unknown provider", func(c *Config) { c.Consultation.Provider = "cohere" }, "provider"},
		{"unknown language", func(c *Config) { c.Consultation.Language = "fr" }, "language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateNoneBackend(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = BackendNone
	cfg.Cache.Redis.DialTimeout = 0
	cfg.Consultation.Provider = ProviderNone
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

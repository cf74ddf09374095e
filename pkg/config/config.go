package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all yedamo configuration.
type Config struct {
	Listen       string             `yaml:"listen"`
	Log          LogConfig          `yaml:"log"`
	Cache        CacheConfig        `yaml:"cache"`
	Calculator   CalculatorConfig   `yaml:"calculator"`
	Consultation ConsultationConfig `yaml:"consultation"`
}

// LogConfig controls logger construction.
// Format is "json" (default) or "console".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// CacheConfig selects and configures the computation cache store.
type CacheConfig struct {
	Backend    string      `yaml:"backend"`
	SQLitePath string      `yaml:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig defines the Redis connection.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// CalculatorConfig defines the external calculator subprocess.
type CalculatorConfig struct {
	Command  string        `yaml:"command"`
	Args     []string      `yaml:"args"`
	Tool     string        `yaml:"tool"`
	Timezone string        `yaml:"timezone"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Consultation providers.
const (
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// ConsultationConfig defines the generative endpoint used for consultations.
type ConsultationConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Region    string `yaml:"region"`
	MaxTokens int    `yaml:"max_tokens"`
	Language  string `yaml:"language"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":3001",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			Backend:    BackendRedis,
			SQLitePath: "yedamo.db",
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DialTimeout: 5 * time.Second,
			},
		},
		Calculator: CalculatorConfig{
			Command:  "npx",
			Args:     []string{"-y", "@mymcp-fun/bazi"},
			Tool:     "get_bazi_details",
			Timezone: "Asia/Seoul",
			Timeout:  15 * time.Second,
		},
		Consultation: ConsultationConfig{
			Provider:  ProviderBedrock,
			Model:     "anthropic.claude-3-haiku-20240307-v1:0",
			Region:    "us-east-1",
			MaxTokens: 500,
			Language:  "ko",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and providers and non-positive timeouts.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendRedis, BackendSQLite, BackendNone:
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendSQLite && c.Cache.SQLitePath == "" {
		return fmt.Errorf("config: cache.sqlite_path is required for the sqlite backend")
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.DialTimeout <= 0 {
		return fmt.Errorf("config: cache.redis.dial_timeout must be positive")
	}

	if c.Calculator.Command == "" {
		return fmt.Errorf("config: calculator.command is required")
	}
	if c.Calculator.Timeout <= 0 {
		return fmt.Errorf("config: calculator.timeout must be positive")
	}

	switch c.Consultation.Provider {
	case ProviderBedrock, ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("config: unknown consultation provider %q", c.Consultation.Provider)
	}
	switch c.Consultation.Language {
	case "", "ko", "en":
	default:
		return fmt.Errorf("config: unsupported consultation language %q", c.Consultation.Language)
	}
	return nil
}

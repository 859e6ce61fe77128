package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type AuthConfig struct {
	SecretKey string        `yaml:"secret_key"`
	Algorithm string        `yaml:"algorithm"` // HS256 | HS384 | HS512
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type TierConfig struct {
	Rank     int      `yaml:"rank"`
	Features []string `yaml:"features"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // empty: in-memory stores
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty: no stats cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StatsTTL time.Duration `yaml:"stats_ttl"`
}

type BillingConfig struct {
	BaseURL string        `yaml:"base_url"` // empty: noop gateway
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type Config struct {
	Auth     AuthConfig            `yaml:"auth"`
	Tiers    map[string]TierConfig `yaml:"tiers"`
	Database DatabaseConfig        `yaml:"database"`
	Redis    RedisConfig           `yaml:"redis"`
	Billing  BillingConfig         `yaml:"billing"`
	Log      LogConfig             `yaml:"log"`
	Server   ServerConfig          `yaml:"server"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config at path.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Billing.Timeout <= 0 {
		cfg.Billing.Timeout = 15 * time.Second
	}
	if cfg.Redis.StatsTTL <= 0 {
		cfg.Redis.StatsTTL = 30 * time.Second
	}

	// Minimal validation
	if cfg.Auth.SecretKey == "" {
		return nil, errors.New("auth.secret_key is required")
	}
	if len(cfg.Tiers) == 0 {
		return nil, errors.New("at least one tier is required")
	}
	for name, t := range cfg.Tiers {
		if t.Rank <= 0 {
			return nil, fmt.Errorf("tier %q: rank must be positive", name)
		}
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

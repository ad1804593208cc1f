// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type BotConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	Workers int    `yaml:"workers" envconfig:"BOT_WORKERS"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`   // trace|debug|info|warn|error
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // json|console
}

type RedisConfig struct {
	Host     string `yaml:"host" envconfig:"REDIS_HOST"`
	Port     int    `yaml:"port" envconfig:"REDIS_PORT"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CommerceConfig struct {
	ClientID     string `yaml:"client_id" envconfig:"ELASTIC_PATH_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" envconfig:"ELASTIC_PATH_CLIENT_SECRET"`
	BaseURL      string `yaml:"base_url" envconfig:"ELASTIC_PATH_BASE_URL"`
}

type OpsConfig struct {
	Port int `yaml:"port" envconfig:"OPS_PORT"`
}

type SessionConfig struct {
	// Namespace prefixes every session key so dialog state cannot collide
	// with other data in a shared store.
	Namespace string `yaml:"namespace" envconfig:"SESSION_NAMESPACE"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Commerce CommerceConfig `yaml:"commerce"`
	Ops      OpsConfig      `yaml:"ops"`
	Session  SessionConfig  `yaml:"session"`
}

// Load reads the optional YAML file at path (skipped when path is empty or
// the file does not exist), then applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case os.IsNotExist(err):
			// env-only deployment
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Commerce.BaseURL == "" {
		cfg.Commerce.BaseURL = "https://api.moltin.com"
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 8081
	}
	if cfg.Session.Namespace == "" {
		cfg.Session.Namespace = "fish_shop"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot token is required")
	}
	if cfg.Commerce.ClientID == "" || cfg.Commerce.ClientSecret == "" {
		return nil, errors.New("commerce client id and secret are required")
	}
	if cfg.Redis.Host == "" {
		return nil, errors.New("redis host is required")
	}

	return &cfg, nil
}

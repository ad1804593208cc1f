package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ELASTIC_PATH_CLIENT_ID", "id1")
	t.Setenv("ELASTIC_PATH_CLIENT_SECRET", "secret1")
	t.Setenv("REDIS_HOST", "localhost")
}

func TestLoadEnvOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Bot.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Bot.Token)
	}
	// defaults
	if cfg.Redis.Port != 6379 {
		t.Fatalf("redis port = %d", cfg.Redis.Port)
	}
	if cfg.Commerce.BaseURL != "https://api.moltin.com" {
		t.Fatalf("base url = %q", cfg.Commerce.BaseURL)
	}
	if cfg.Session.Namespace != "fish_shop" {
		t.Fatalf("namespace = %q", cfg.Session.Namespace)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("log config = %+v", cfg.Log)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("addr = %q", cfg.Redis.Addr())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_NAMESPACE", "veg_shop")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "session:\n  namespace: fish_shop\nredis:\n  port: 6380\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Namespace != "veg_shop" {
		t.Fatalf("namespace = %q, env must win", cfg.Session.Namespace)
	}
	if cfg.Redis.Port != 6380 {
		t.Fatalf("redis port = %d, file value must apply", cfg.Redis.Port)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ELASTIC_PATH_CLIENT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for missing commerce secret")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresSecretsUnlessDevAuth(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DEV_AUTH", "false")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without token secrets")
	}

	t.Setenv("DEV_AUTH", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("dev auth should not require secrets: %v", err)
	}
	if cfg.Notify.Schedule != "@every 1m" || cfg.Notify.Interval != time.Minute {
		t.Fatalf("unexpected notify defaults: %#v", cfg.Notify)
	}
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
port: "9090"
timezone: Asia/Jerusalem
auth:
  access_token_secret: file-access
  refresh_token_secret: file-refresh
  access_token_ttl: 2h
notify:
  max_catch_up: 10m
smtp:
  host: smtp.example.com
  from: pets@example.com
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DEV_AUTH", "")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh")
	t.Setenv("NOTIFY_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port from file, got %q", cfg.Port)
	}
	if cfg.Auth.AccessTokenSecret != "file-access" || cfg.Auth.RefreshTokenSecret != "env-refresh" {
		t.Fatalf("unexpected secrets: %#v", cfg.Auth)
	}
	if cfg.Auth.AccessTokenTTL != 2*time.Hour {
		t.Fatalf("expected ttl from file, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Notify.Interval != 30*time.Second || cfg.Notify.MaxCatchUp != 10*time.Minute {
		t.Fatalf("unexpected notify config: %#v", cfg.Notify)
	}
	if !cfg.SMTP.Configured() {
		t.Fatalf("expected smtp configured")
	}
	if cfg.Location().String() != "Asia/Jerusalem" {
		t.Fatalf("unexpected location %s", cfg.Location())
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("NOTIFY_INTERVAL", "every minute")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

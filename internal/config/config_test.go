package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
)

const sampleConfig = `
env: production
default_topic: General
reveal_delay: 2s
http:
  address: ":8080"
catalog:
  refresh_schedule: "@every 5m"
  entries:
    - filename: questions-gnm.csv
      title: GNM Nursing Questions
      description: Question bank
      icon: "🏥"
    - filename: https://example.com/anatomy.xlsx
      title: Anatomy
sessions:
  idle_ttl: 2h
`

const configPath = "/quizdeck/config.yaml"

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"TELEGRAM_API_TOKEN", "DATABASE_URL", "APP_ENV", "HTTP_ADDRESS"} {
		t.Setenv(name, "")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	fs := writeConfig(t, sampleConfig)

	cfg, err := LoadFs(fs, configPath)
	if err != nil {
		t.Fatalf("LoadFs: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Env: got %q, want production", cfg.Env)
	}
	if cfg.DefaultTopic != "General" {
		t.Errorf("DefaultTopic: got %q", cfg.DefaultTopic)
	}
	if cfg.RevealDelay != 2*time.Second {
		t.Errorf("RevealDelay: got %v", cfg.RevealDelay)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout default: got %v", cfg.FetchTimeout)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Errorf("HTTP.Address: got %q", cfg.HTTP.Address)
	}
	if cfg.Catalog.RefreshSchedule != "@every 5m" {
		t.Errorf("RefreshSchedule: got %q", cfg.Catalog.RefreshSchedule)
	}
	if cfg.Sessions.IdleTTL != 2*time.Hour || cfg.Sessions.EvictSchedule != "@every 1h" {
		t.Errorf("Sessions: got %+v", cfg.Sessions)
	}
	if len(cfg.Catalog.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(cfg.Catalog.Entries))
	}
	first := cfg.Catalog.Entries[0]
	if first.Filename != "questions-gnm.csv" || first.Icon != "🏥" || first.Description != "Question bank" {
		t.Errorf("first entry: %+v", first)
	}
	if cfg.DB.Enabled() {
		t.Error("database enabled without DATABASE_URL")
	}
}

func TestLoadSecretsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/quizdeck")
	t.Setenv("APP_ENV", "dev")
	fs := writeConfig(t, "catalog:\n  entries:\n    - filename: a.csv\n")

	cfg, err := LoadFs(fs, configPath)
	if err != nil {
		t.Fatalf("LoadFs: %v", err)
	}
	if cfg.TelegramAPIToken != "token" {
		t.Errorf("TelegramAPIToken: got %q", cfg.TelegramAPIToken)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env: got %q, want dev", cfg.Env)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/quizdeck" {
		t.Errorf("DSN: got %q, %v", dsn, err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	fs := afero.NewMemMapFs()
	content := "http:\n  address: :9000\ncatalog:\n  entries:\n    - filename: a.csv\n"
	if err := afero.WriteFile(fs, "/etc/quizdeck.yaml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFs(fs, "/etc/quizdeck.yaml")
	if err != nil {
		t.Fatalf("LoadFs: %v", err)
	}
	if cfg.HTTP.Address != ":9000" {
		t.Errorf("HTTP.Address: got %q", cfg.HTTP.Address)
	}

	if _, err := LoadFs(fs, "/etc/missing.yaml"); err == nil {
		t.Error("missing explicit config file: want error")
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "no delivery",
			content: "catalog:\n  entries:\n    - filename: a.csv\n",
			want:    ErrNoDelivery,
		},
		{
			name:    "empty catalog",
			content: "http:\n  address: :8080\n",
			want:    ErrEmptyCatalog,
		},
		{
			name:    "entry without filename",
			content: "http:\n  address: :8080\ncatalog:\n  entries:\n    - title: Nameless\n",
			want:    ErrInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFs(writeConfig(t, tt.content), configPath)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

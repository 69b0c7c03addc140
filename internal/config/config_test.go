package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Tests here use t.Setenv and so cannot run in parallel

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "4500" {
		t.Errorf("Port = %q, want 4500", cfg.Port)
	}
	if cfg.LogSource != LogSourcePoll {
		t.Errorf("LogSource = %q, want poll", cfg.LogSource)
	}
	if cfg.LogPollInterval != time.Second {
		t.Errorf("LogPollInterval = %v, want 1s", cfg.LogPollInterval)
	}
	if cfg.AuthEnabled() {
		t.Errorf("AuthEnabled without DATABASE_URL")
	}
}

func TestLoadPublicBackendURLFallback(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("PUBLIC_BACKEND_URL", "https://api.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
}

func TestLoadFileSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_url")
	if err := os.WriteFile(path, []byte("postgres://u:p@db/glimpse\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("BACKEND_URL", "http://localhost:8000")
	t.Setenv("DATABASE_URL", "postgres://ignored")
	t.Setenv("DATABASE_URL_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://u:p@db/glimpse" {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if !cfg.AuthEnabled() {
		t.Fatalf("AuthEnabled = false with DATABASE_URL")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing backend", map[string]string{"BACKEND_URL": "", "PUBLIC_BACKEND_URL": ""}},
		{"bad log source", map[string]string{"BACKEND_URL": "http://b", "LOG_SOURCE": "kafka"}},
		{"zero poll interval", map[string]string{"BACKEND_URL": "http://b", "LOG_POLL_INTERVAL": "0s"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("Load succeeded, want error")
			}
		})
	}
}

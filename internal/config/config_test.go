package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TIMECLOCK_TOKEN_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SQLitePath != "timeclock.db" {
		t.Fatalf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl of 24h, got %v", cfg.TokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMECLOCK_HTTP_PORT", "9090")
	t.Setenv("TIMECLOCK_SQLITE_PATH", "/tmp/clock.db")
	t.Setenv("TIMECLOCK_TOKEN_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLitePath != "/tmp/clock.db" {
		t.Fatalf("expected overridden path, got %q", cfg.SQLitePath)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", cfg.TokenTTL)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("TIMECLOCK_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a missing token secret")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero port", "TIMECLOCK_HTTP_PORT", "0"},
		{"blank sqlite path", "TIMECLOCK_SQLITE_PATH", "   "},
		{"zero ttl", "TIMECLOCK_TOKEN_TTL", "0s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

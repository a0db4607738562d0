package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	keys := []string{
		"DATABASE_PATH", "ADDRESS", "PORT", "STATIC_DIR",
		"WORKSPACE_RATE_LIMIT", "DEFAULT_LOCK_TTL_SECONDS", "LOG_LEVEL", "LOG_JSON",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	if cfg.DatabasePath != DefaultDatabasePath {
		t.Errorf("expected default database path, got %q", cfg.DatabasePath)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.WorkspaceRateLimit != DefaultWorkspaceRateLimit {
		t.Errorf("expected default rate limit %d, got %d", DefaultWorkspaceRateLimit, cfg.WorkspaceRateLimit)
	}
	if cfg.DefaultLockTTL != DefaultLockTTLSeconds*time.Second {
		t.Errorf("expected default lock ttl %ds, got %s", DefaultLockTTLSeconds, cfg.DefaultLockTTL)
	}
	if cfg.LogJSON {
		t.Error("expected LogJSON default false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_PATH", "/tmp/customdata")
	t.Setenv("PORT", "9000")
	t.Setenv("WORKSPACE_RATE_LIMIT", "25")
	t.Setenv("DEFAULT_LOCK_TTL_SECONDS", "120")
	t.Setenv("LOG_JSON", "true")

	cfg := FromEnv()

	if cfg.DatabasePath != "/tmp/customdata" {
		t.Errorf("expected overridden database path, got %q", cfg.DatabasePath)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.WorkspaceRateLimit != 25 {
		t.Errorf("expected rate limit 25, got %d", cfg.WorkspaceRateLimit)
	}
	if cfg.DefaultLockTTL != 120*time.Second {
		t.Errorf("expected 120s lock ttl, got %s", cfg.DefaultLockTTL)
	}
	if !cfg.LogJSON {
		t.Error("expected LogJSON true")
	}
}

func TestFromEnvInvalidIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	cfg := FromEnv()

	if cfg.Port != DefaultPort {
		t.Errorf("expected fallback to default port on invalid input, got %d", cfg.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Config{Address: "127.0.0.1", Port: 8080}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %q", got)
	}
}

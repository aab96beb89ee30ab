package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/isrelgetu251-dotcom/Telee-b/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
telegram:
  token: "123456:test-token"
  admin_user_ids: [1, 2]
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != config.DefaultLogLevel {
		t.Errorf("logger level = %q, want %q", cfg.Logger.Level, config.DefaultLogLevel)
	}
	if cfg.Database.Path != config.DefaultDBPath {
		t.Errorf("database path = %q, want %q", cfg.Database.Path, config.DefaultDBPath)
	}
	if cfg.Session.TTL != config.DefaultSessionTTL {
		t.Errorf("session TTL = %v, want %v", cfg.Session.TTL, config.DefaultSessionTTL)
	}
	if cfg.Gemini.Enabled() {
		t.Error("gemini enabled without an API key")
	}
	if cfg.Messages.Welcome != config.DefaultMessages.Welcome {
		t.Errorf("welcome message = %q", cfg.Messages.Welcome)
	}

	task, ok := cfg.Scheduler.Tasks["session_cleanup"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("session_cleanup task not configured by default: %+v", cfg.Scheduler.Tasks)
	}
	if _, ok := cfg.Scheduler.Tasks["sql_maintenance"]; !ok {
		t.Errorf("sql_maintenance task not configured by default: %+v", cfg.Scheduler.Tasks)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
logger:
  level: debug
telegram:
  token: "123456:test-token"
  admin_user_ids: [42]
session:
  ttl: 30m
gemini:
  api_key: "test-key"
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("logger level = %q, want debug", cfg.Logger.Level)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("session TTL = %v, want 30m", cfg.Session.TTL)
	}
	if !cfg.Gemini.Enabled() {
		t.Error("gemini not enabled with an API key configured")
	}
	if !cfg.Telegram.IsAdmin(42) {
		t.Error("IsAdmin(42) = false for configured admin")
	}
	if cfg.Telegram.IsAdmin(7) {
		t.Error("IsAdmin(7) = true for unknown user")
	}
}

func TestLoadConfig_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "No token",
			contents: "telegram:\n  admin_user_ids: [1]\n",
		},
		{
			name:     "No admins",
			contents: "telegram:\n  token: \"123456:test-token\"\n",
		},
		{
			name:     "Invalid admin id",
			contents: "telegram:\n  token: \"123456:test-token\"\n  admin_user_ids: [0]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.contents)
			if _, err := config.LoadConfig(path); err == nil {
				t.Error("LoadConfig accepted an invalid configuration")
			}
		})
	}
}

func TestLoadConfig_MissingFileIsTolerated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	_, err := config.LoadConfig(path)
	// A missing file falls through to defaults, which lack the required
	// Telegram settings, so the failure must be a validation error rather
	// than a file read error.
	if err == nil {
		t.Fatal("LoadConfig accepted a config without telegram settings")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("LoadConfig error = %v, want a validation error", err)
	}
}

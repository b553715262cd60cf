// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8457 {
		t.Errorf("Server.Port = %d, want 8457", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q, want badger", cfg.Storage.Backend)
	}
	if cfg.Portal.HostDomain != "hirstart.hu" {
		t.Errorf("Portal.HostDomain = %q, want hirstart.hu", cfg.Portal.HostDomain)
	}
	if cfg.Events.Backend != "channel" {
		t.Errorf("Events.Backend = %q, want channel", cfg.Events.Backend)
	}
	if cfg.Fetch.CacheTTL != 2*time.Minute {
		t.Errorf("Fetch.CacheTTL = %v, want 2m", cfg.Fetch.CacheTTL)
	}
	if cfg.Security.RequireToken {
		t.Error("Security.RequireToken should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"STORAGE_BACKEND", "storage.backend"},
		{"REDIS_URL", "storage.redis_url"},
		{"PORTAL_HOST_DOMAIN", "portal.host_domain"},
		{"NATS_EMBEDDED", "events.embedded_nats"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("recosys.yaml exists", func(t *testing.T) {
		path := filepath.Join(tmpDir, "recosys.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(path)

		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "recosys.yaml" {
			t.Errorf("findConfigFile() = %q, want recosys.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(custom, []byte("server:\n  port: 1\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, custom)
		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH pointing nowhere falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/recosys.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FETCH_CACHE_TTL", "45s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if got := strings.Join(cfg.Security.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("Security.CORSOrigins = %q, want two trimmed origins", got)
	}
	if cfg.Fetch.CacheTTL != 45*time.Second {
		t.Errorf("Fetch.CacheTTL = %v, want 45s", cfg.Fetch.CacheTTL)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
server:
  port: 8888
  host: "127.0.0.1"

storage:
  backend: sqlite
  sqlite_path: "/tmp/recosys-test.db"

recommend:
  seed: 7

logging:
  level: warn
`
	configPath := filepath.Join(tmpDir, "recosys.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLitePath != "/tmp/recosys-test.db" {
		t.Errorf("Storage = %+v, want sqlite at /tmp/recosys-test.db", cfg.Storage)
	}
	if cfg.Recommend.Seed != 7 {
		t.Errorf("Recommend.Seed = %d, want 7", cfg.Recommend.Seed)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Portal.HostDomain != "hirstart.hu" {
		t.Errorf("Portal.HostDomain = %q, want hirstart.hu (default)", cfg.Portal.HostDomain)
	}
}

func TestLoadFileEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 8888\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}

	if _, err := LoadFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("LoadFile() with missing file should fail")
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := LoadWithKoanf()
	if err == nil {
		t.Fatal("expected validation error for unknown storage backend")
	}
	if !strings.Contains(err.Error(), "STORAGE_BACKEND") {
		t.Errorf("error = %v, want mention of STORAGE_BACKEND", err)
	}
}

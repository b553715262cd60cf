// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, first match wins.
var DefaultConfigPaths = []string{
	"recosys.yaml",
	"recosys.yml",
	"/etc/recosys/config.yaml",
	"/etc/recosys/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8457,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Storage: StorageConfig{
			Backend:    "badger",
			BadgerPath: "/data/recosys/badger",
			RedisURL:   "redis://localhost:6379/0",
			SQLitePath: "/data/recosys/recosys.db",
		},
		Recommend: RecommendConfig{
			Seed:    0,
			Timeout: 5 * time.Second,
		},
		Portal: PortalConfig{
			HostDomain: "hirstart.hu",
			BaseURL:    "https://www.hirstart.hu",
		},
		Events: EventsConfig{
			Backend:      "channel",
			NATSURL:      "nats://127.0.0.1:4222",
			EmbeddedNATS: false,
			NATSHost:     "127.0.0.1",
			NATSPort:     4222,
			BufferSize:   256,
		},
		Fetch: FetchConfig{
			Timeout:          10 * time.Second,
			RatePerSecond:    2,
			Burst:            4,
			CacheSize:        64,
			CacheTTL:         2 * time.Minute,
			MaxBodyBytes:     4 << 20,
			BreakerFailures:  5,
			BreakerOpenDelay: 30 * time.Second,
			UserAgent:        "recosys/1.0 (+https://github.com/sanchomuzax/hirstart-recosys)",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"https://www.hirstart.hu", "https://hirstart.hu"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			RequireToken:    false,
			TokenTTL:        365 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from three layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile loads configuration using an explicit file path instead of the
// search list. Environment variables still take precedence.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return LoadWithKoanf()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Path returns the config file Load reads, or "" when none exists.
func Path() string {
	return findConfigFile()
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"storage_backend":     "storage.backend",
	"badger_path":         "storage.badger_path",
	"redis_url":           "storage.redis_url",
	"sqlite_path":         "storage.sqlite_path",
	"recommend_seed":      "recommend.seed",
	"recommend_timeout":   "recommend.timeout",
	"portal_host_domain":  "portal.host_domain",
	"portal_base_url":     "portal.base_url",
	"events_backend":      "events.backend",
	"nats_url":            "events.nats_url",
	"nats_embedded":       "events.embedded_nats",
	"nats_host":           "events.nats_host",
	"nats_port":           "events.nats_port",
	"events_buffer_size":  "events.buffer_size",
	"fetch_timeout":       "fetch.timeout",
	"fetch_rate":          "fetch.rate_per_second",
	"fetch_burst":         "fetch.burst",
	"fetch_cache_size":    "fetch.cache_size",
	"fetch_cache_ttl":     "fetch.cache_ttl",
	"fetch_max_body":      "fetch.max_body_bytes",
	"fetch_user_agent":    "fetch.user_agent",
	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"require_token":       "security.require_token",
	"token_secret":        "security.token_secret",
	"token_ttl":           "security.token_ttl",
	"storage_key_salt":    "security.key_salt",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps env var names to config paths. Unmapped variables
// return "" and are ignored, so unrelated environment never leaks into config.
//
//   - HTTP_PORT -> server.port
//   - STORAGE_BACKEND -> storage.backend
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
// Callers are responsible for synchronising access to reloaded values.
//
//	err := config.WatchConfigFile(path, func() {
//	    if cfg, err := config.LoadFile(path); err == nil {
//	        logging.SetLevelString(cfg.Logging.Level)
//	    }
//	})
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}

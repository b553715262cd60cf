// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package config loads recosys configuration from defaults, an optional YAML
// file and environment variables (in that order of precedence, lowest first).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Portal    PortalConfig    `koanf:"portal"`
	Events    EventsConfig    `koanf:"events"`
	Fetch     FetchConfig     `koanf:"fetch"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// StorageConfig selects and configures the profile state backend.
type StorageConfig struct {
	// Backend is one of: memory, badger, redis, sqlite.
	Backend    string `koanf:"backend"`
	BadgerPath string `koanf:"badger_path"`
	RedisURL   string `koanf:"redis_url"`
	SQLitePath string `koanf:"sqlite_path"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// Seed for the selection RNG. 0 seeds from the clock.
	Seed    int64         `koanf:"seed"`
	Timeout time.Duration `koanf:"timeout"`
}

// PortalConfig describes the news portal whose pages are scanned.
type PortalConfig struct {
	// HostDomain clicks are not counted (links inside the portal itself).
	HostDomain string `koanf:"host_domain"`
	BaseURL    string `koanf:"base_url"`
}

// EventsConfig configures the click/dismiss event bus.
type EventsConfig struct {
	// Backend is one of: channel, nats.
	Backend      string `koanf:"backend"`
	NATSURL      string `koanf:"nats_url"`
	EmbeddedNATS bool   `koanf:"embedded_nats"`
	NATSHost     string `koanf:"nats_host"`
	NATSPort     int    `koanf:"nats_port"`
	BufferSize   int64  `koanf:"buffer_size"`
}

// FetchConfig configures outbound portal page fetching.
type FetchConfig struct {
	Timeout          time.Duration `koanf:"timeout"`
	RatePerSecond    float64       `koanf:"rate_per_second"`
	Burst            int           `koanf:"burst"`
	CacheSize        int           `koanf:"cache_size"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	MaxBodyBytes     int64         `koanf:"max_body_bytes"`
	BreakerFailures  uint32        `koanf:"breaker_failures"`
	BreakerOpenDelay time.Duration `koanf:"breaker_open_delay"`
	UserAgent        string        `koanf:"user_agent"`
}

// SecurityConfig holds CORS, rate limiting and profile token settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// RequireToken makes every profile route demand a signed profile token.
	RequireToken bool          `koanf:"require_token"`
	TokenSecret  string        `koanf:"token_secret"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	// KeySalt is mixed into the storage key derived from a profile ID.
	KeySalt string `koanf:"key_salt"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads configuration with koanf. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

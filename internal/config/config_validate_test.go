// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }, "STORAGE_BACKEND"},
		{"badger without path", func(c *Config) { c.Storage.BadgerPath = "" }, "BADGER_PATH"},
		{"redis bad scheme", func(c *Config) {
			c.Storage.Backend = "redis"
			c.Storage.RedisURL = "http://localhost:6379"
		}, "REDIS_URL"},
		{"redis ok", func(c *Config) {
			c.Storage.Backend = "redis"
			c.Storage.RedisURL = "redis://cache:6379/2"
		}, ""},
		{"sqlite without path", func(c *Config) {
			c.Storage.Backend = "sqlite"
			c.Storage.SQLitePath = ""
		}, "SQLITE_PATH"},
		{"host domain with scheme", func(c *Config) { c.Portal.HostDomain = "https://hirstart.hu" }, "PORTAL_HOST_DOMAIN"},
		{"empty host domain", func(c *Config) { c.Portal.HostDomain = " " }, "PORTAL_HOST_DOMAIN"},
		{"unknown events backend", func(c *Config) { c.Events.Backend = "kafka" }, "EVENTS_BACKEND"},
		{"nats bad url", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.NATSURL = "http://nats:4222"
		}, "NATS_URL"},
		{"embedded nats ignores url", func(c *Config) {
			c.Events.Backend = "nats"
			c.Events.EmbeddedNATS = true
			c.Events.NATSURL = ""
		}, ""},
		{"fetch zero rate", func(c *Config) { c.Fetch.RatePerSecond = 0 }, "FETCH_RATE"},
		{"rate limit window too small", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"token without secret", func(c *Config) { c.Security.RequireToken = true }, "TOKEN_SECRET"},
		{"token with secret", func(c *Config) {
			c.Security.RequireToken = true
			c.Security.TokenSecret = strings.Repeat("s", 32)
		}, ""},
		{"wildcard cors in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*"}
		}, "CORS_ORIGINS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8457}
	if got := s.Addr(); got != "127.0.0.1:8457" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8457", got)
	}
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/supervisor"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			Timeout:         5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Storage:   config.StorageConfig{Backend: "memory"},
		Recommend: config.RecommendConfig{Seed: 1, Timeout: time.Second},
		Portal:    config.PortalConfig{HostDomain: "hirstart.hu", BaseURL: "https://www.hirstart.hu"},
		Events:    config.EventsConfig{Backend: "channel", BufferSize: 16},
		Fetch: config.FetchConfig{
			Timeout:          time.Second,
			RatePerSecond:    1,
			Burst:            1,
			CacheSize:        4,
			CacheTTL:         time.Minute,
			MaxBodyBytes:     1 << 20,
			BreakerFailures:  3,
			BreakerOpenDelay: time.Second,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"https://www.hirstart.hu"},
			RateLimitDisabled: true,
		},
	}
}

func TestNewApp_UnknownStorageBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Backend = "floppy"
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("newApp should reject an unknown storage backend")
	}
}

func TestNewApp_TokenSecretRequired(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RequireToken = true
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("newApp should fail without a token secret")
	}
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, testConfig())
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	tree, err := supervisor.NewSupervisorTree(slog.New(slog.NewTextHandler(io.Discard, nil)), supervisor.TreeConfig{ShutdownTimeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	a.register(tree)
	errCh := tree.ServeBackground(ctx)

	server := httptest.NewServer(a.server.Handler)
	t.Cleanup(server.Close)

	const profile = "e2e-profile-0001"
	body := `{"href":"https://index.hu/sport/1","rel":"hs_5001_0","pageUrl":"https://www.hirstart.hu/"}`

	// The relay subscribes asynchronously; keep clicking until one is forwarded.
	deadline := time.Now().Add(5 * time.Second)
	for a.relay.Forwarded() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("relay never forwarded an event")
		}
		resp, err := http.Post(server.URL+"/api/v1/profiles/"+profile+"/clicks", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST clicks: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		time.Sleep(20 * time.Millisecond)
	}

	resp, err := http.Get(server.URL + "/api/v1/health/ready")
	if err != nil {
		t.Fatalf("GET ready: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(10 * time.Second):
		t.Fatal("supervisor tree did not stop")
	}
}

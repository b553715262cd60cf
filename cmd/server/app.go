// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/api"
	"github.com/sanchomuzax/hirstart-recosys/internal/auth"
	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
	"github.com/sanchomuzax/hirstart-recosys/internal/supervisor"
	"github.com/sanchomuzax/hirstart-recosys/internal/supervisor/services"
	ws "github.com/sanchomuzax/hirstart-recosys/internal/websocket"
)

// app holds the long-lived components built from one configuration.
type app struct {
	cfg    *config.Config
	store  *storage.Instrumented
	bus    *events.Bus
	hub    *ws.Hub
	relay  *events.Relay
	server *http.Server
}

// newApp builds every component. On error, whatever was opened is closed.
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	keys := auth.NewKeyDeriver(cfg.Security.KeySalt)
	store, err := storage.Open(ctx, cfg.Storage, keys.Derive)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a := &app{cfg: cfg, store: store}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()
	logging.Info().Str("backend", store.Backend()).Msg("Profile store opened")

	locker := storage.NewLocker()
	tracker := clicklog.NewTracker(store, locker)
	registry := seen.NewRegistry(store, locker)
	engine, err := recommend.NewEngine(&recommend.Config{
		Seed:    cfg.Recommend.Seed,
		Timeout: cfg.Recommend.Timeout,
	}, store, registry, nil)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	scanner := pagescan.NewScanner(nil)
	fetcher := pagescan.NewFetcher(cfg.Fetch, cfg.Portal.HostDomain, scanner)

	var tokens *auth.TokenManager
	if cfg.Security.RequireToken {
		if tokens, err = auth.NewTokenManager(&cfg.Security); err != nil {
			return nil, fmt.Errorf("create token manager: %w", err)
		}
		logging.Info().Dur("ttl", cfg.Security.TokenTTL).Msg("Profile tokens required")
	} else {
		logging.Warn().Msg("Profile tokens disabled (REQUIRE_TOKEN=false); any caller can address any profile")
	}

	if a.bus, err = events.NewBus(cfg.Events, logging.NewWatermillAdapter()); err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}
	logging.Info().Str("backend", a.bus.Backend()).Msg("Event bus ready")

	a.hub = ws.NewHub()
	a.relay = events.NewRelay(a.bus, a.hub)

	handler := api.NewHandler(api.Deps{
		Config:   cfg,
		Store:    store,
		Locker:   locker,
		Tracker:  tracker,
		Registry: registry,
		Engine:   engine,
		Resolver: pagescan.NewResolver(cfg.Portal.HostDomain, nil),
		Scanner:  scanner,
		Fetcher:  fetcher,
		Tokens:   tokens,
		Hub:      a.hub,
		Events:   a.bus,
	})

	a.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler).SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// register adds the app's services to the tree.
func (a *app) register(tree *supervisor.SupervisorTree) {
	tree.AddDataService(a.relay)
	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", a.server.Addr).Msg("HTTP server service added")
}

// Close releases the bus and the store.
func (a *app) Close() error {
	var errs []error
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	return errors.Join(errs...)
}

// watchConfig reapplies the log level whenever the config file changes.
func watchConfig(path string) {
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
		return
	}
	logging.Info().Str("path", path).Msg("Watching config file")
}

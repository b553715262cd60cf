// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sanchomuzax/hirstart-recosys/internal/auth"
	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
	"github.com/sanchomuzax/hirstart-recosys/internal/stats"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
	"github.com/sanchomuzax/hirstart-recosys/internal/validation"
)

// runtime is the set of engines one command works with.
type runtime struct {
	cfg      *config.Config
	store    storage.Store
	locker   *storage.Locker
	tracker  *clicklog.Tracker
	registry *seen.Registry
	engine   *recommend.Engine
	resolver *pagescan.Resolver
	scanner  *pagescan.Scanner
	fetcher  *pagescan.Fetcher
}

func newRuntime(cfg *config.Config, store storage.Store) (*runtime, error) {
	locker := storage.NewLocker()
	registry := seen.NewRegistry(store, locker)
	engine, err := recommend.NewEngine(&recommend.Config{
		Seed:    cfg.Recommend.Seed,
		Timeout: cfg.Recommend.Timeout,
	}, store, registry, nil)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	scanner := pagescan.NewScanner(nil)
	return &runtime{
		cfg:      cfg,
		store:    store,
		locker:   locker,
		tracker:  clicklog.NewTracker(store, locker),
		registry: registry,
		engine:   engine,
		resolver: pagescan.NewResolver(cfg.Portal.HostDomain, nil),
		scanner:  scanner,
		fetcher:  pagescan.NewFetcher(cfg.Fetch, cfg.Portal.HostDomain, scanner),
	}, nil
}

// defaultDBPath is the SQLite store used when nothing is configured.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recosys.db"
	}
	return filepath.Join(home, ".config", "recosys", "recosys.db")
}

// openRuntime loads configuration and opens the configured store. Without
// a config file or STORAGE_BACKEND the CLI keeps its own SQLite file.
func openRuntime(ctx context.Context, globals *GlobalFlags) (*runtime, error) {
	level := "warn"
	if globals.Verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: os.Stderr})

	cfg, err := config.LoadFile(globals.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if globals.Config == "" && config.Path() == "" && os.Getenv("STORAGE_BACKEND") == "" {
		cfg.Storage.Backend = storage.BackendSQLite
		cfg.Storage.SQLitePath = defaultDBPath()
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	keys := auth.NewKeyDeriver(cfg.Security.KeySalt)
	store, err := storage.Open(ctx, cfg.Storage, keys.Derive)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt, err := newRuntime(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return rt, nil
}

// open returns the injected runtime or opens one. The returned func
// closes what open opened.
func (c *common) open(ctx context.Context) (*runtime, func(), error) {
	if !validation.ValidProfileID(c.globals.Profile) {
		return nil, nil, fmt.Errorf("invalid profile ID %q: use 8-64 letters, digits, '-' or '_'", c.globals.Profile)
	}
	if c.rt != nil {
		return c.rt, func() {}, nil
	}
	rt, err := openRuntime(ctx, c.globals)
	if err != nil {
		return nil, nil, err
	}
	return rt, func() {
		if err := rt.store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close store")
		}
	}, nil
}

func (c *common) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// summary builds the statistics summary of profile.
func (r *runtime) summary(ctx context.Context, profile string) (stats.Summary, error) {
	state, err := r.tracker.Snapshot(ctx, profile)
	if err != nil {
		return stats.Summary{}, err
	}
	items, err := r.registry.Items(ctx, profile)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Build(state, items), nil
}

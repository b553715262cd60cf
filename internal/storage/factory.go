// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Open creates the backend selected by cfg.Backend, wrapped with Instrument.
func Open(ctx context.Context, cfg config.StorageConfig, keyFunc KeyFunc) (*Instrumented, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
		cfg.Backend = BackendMemory
	case BackendBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0o750); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		s, err = OpenBadgerStore(cfg.BadgerPath)
	case BackendRedis:
		s, err = OpenRedisStore(ctx, cfg.RedisURL)
	case BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		s, err = OpenSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().Str("backend", cfg.Backend).Msg("Profile store opened")
	return Instrument(s, cfg.Backend, keyFunc), nil
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
)

// KeyFunc maps a public profile ID to the key a backend stores it under.
type KeyFunc func(profile string) string

// Instrumented wraps a backend with metrics, profile key derivation and
// PersistenceError wrapping. Open returns backends already wrapped.
type Instrumented struct {
	inner   Store
	backend string
	keyFunc KeyFunc
}

// Instrument wraps s. A nil keyFunc stores profiles under their own ID.
func Instrument(s Store, backend string, keyFunc KeyFunc) *Instrumented {
	if keyFunc == nil {
		keyFunc = func(p string) string { return p }
	}
	return &Instrumented{inner: s, backend: backend, keyFunc: keyFunc}
}

// Backend returns the backend name ("memory", "badger", "redis", "sqlite").
func (s *Instrumented) Backend() string {
	return s.backend
}

func (s *Instrumented) Load(ctx context.Context, profile string, keys ...Key) (*Record, error) {
	start := time.Now()
	rec, err := s.inner.Load(ctx, s.keyFunc(profile), keys...)
	metrics.RecordStorageOp(s.backend, "load", time.Since(start), err)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Backend: s.backend, Err: err}
	}
	return rec, nil
}

func (s *Instrumented) Save(ctx context.Context, profile string, rec *Record, keys ...Key) error {
	start := time.Now()
	err := s.inner.Save(ctx, s.keyFunc(profile), rec, keys...)
	metrics.RecordStorageOp(s.backend, "save", time.Since(start), err)
	if err != nil {
		return &PersistenceError{Op: "save", Backend: s.backend, Err: err}
	}
	return nil
}

func (s *Instrumented) Delete(ctx context.Context, profile string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, s.keyFunc(profile))
	metrics.RecordStorageOp(s.backend, "delete", time.Since(start), err)
	if err != nil {
		return &PersistenceError{Op: "delete", Backend: s.backend, Err: err}
	}
	return nil
}

func (s *Instrumented) Ping(ctx context.Context) error {
	if err := s.inner.Ping(ctx); err != nil {
		return &PersistenceError{Op: "ping", Backend: s.backend, Err: err}
	}
	return nil
}

func (s *Instrumented) Close() error {
	return s.inner.Close()
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded fields in a map. State is lost on restart; it is
// used for tests, the CLI's dry runs and single-process demos.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]map[Key][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]map[Key][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, profile string, keys ...Key) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys = keysOrAll(keys)
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := &Record{}
	fields := s.profiles[profile]
	for _, k := range keys {
		data, ok := fields[k]
		if !ok {
			continue
		}
		if err := decodeField(rec, k, data); err != nil {
			return nil, err
		}
	}
	rec.normalize()
	return rec, nil
}

func (s *MemoryStore) Save(ctx context.Context, profile string, rec *Record, keys ...Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := encodeFields(rec, keysOrAll(keys))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.profiles[profile]
	if !ok {
		fields = make(map[Key][]byte, len(AllKeys))
		s.profiles[profile] = fields
	}
	for k, data := range encoded {
		fields[k] = data
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, profile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, profile)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

// Profiles returns the number of stored profiles.
func (s *MemoryStore) Profiles() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerProfilePrefix = "profile:"

// BadgerStore persists profile fields in an embedded BadgerDB, one key per
// field: "profile:<id>:<field>".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an already opened DB. Close closes it.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func badgerKey(profile string, key Key) []byte {
	return []byte(badgerProfilePrefix + profile + ":" + string(key))
}

func (s *BadgerStore) Load(ctx context.Context, profile string, keys ...Key) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys = keysOrAll(keys)
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	rec := &Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		for _, k := range keys {
			item, err := txn.Get(badgerKey(profile, k))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", k, err)
			}
			if err := item.Value(func(val []byte) error {
				return decodeField(rec, k, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	rec.normalize()
	return rec, nil
}

func (s *BadgerStore) Save(ctx context.Context, profile string, rec *Record, keys ...Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := encodeFields(rec, keysOrAll(keys))
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for k, data := range encoded {
			if err := txn.Set(badgerKey(profile, k), data); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) Delete(ctx context.Context, profile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range AllKeys {
			if err := txn.Delete(badgerKey(profile, k)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

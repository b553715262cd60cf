// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// SQLiteStore keeps one row per (profile, field) in profile_state.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens the database at path (":memory:" for tests) and
// applies migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A ":memory:" database lives inside one connection.
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).Run(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, profile string, keys ...Key) (*Record, error) {
	keys = keysOrAll(keys)
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	wanted := make(map[Key]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT field, value FROM profile_state WHERE profile = ?", profile)
	if err != nil {
		return nil, fmt.Errorf("query profile_state: %w", err)
	}
	defer rows.Close()

	rec := &Record{}
	for rows.Next() {
		var field string
		var value []byte
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan profile_state: %w", err)
		}
		if !wanted[Key(field)] {
			continue
		}
		if err := decodeField(rec, Key(field), value); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile_state: %w", err)
	}
	rec.normalize()
	return rec, nil
}

func (s *SQLiteStore) Save(ctx context.Context, profile string, rec *Record, keys ...Key) error {
	encoded, err := encodeFields(rec, keysOrAll(keys))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profile_state (profile, field, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (profile, field) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for k, data := range encoded {
		if _, err := stmt.ExecContext(ctx, profile, string(k), data); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, profile string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM profile_state WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package storage persists per-profile recommendation state.
//
// A profile's state is four named fields, stored under the same names the
// browser extension used in chrome.storage:
//
//	clickData       the bounded click event log
//	domainCounts    per-site click counts
//	tematikaCounts  per-category click counts
//	relIdList       the bounded list of seen article IDs
//
// Every backend writes the fields named in one Save call as a single atomic
// unit: either all of them change or none do.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/sanchomuzax/hirstart-recosys/internal/models"
)

// Key names one persisted field of a profile.
type Key string

const (
	KeyEvents         Key = "clickData"
	KeySiteCounts     Key = "domainCounts"
	KeyCategoryCounts Key = "tematikaCounts"
	KeySeenItems      Key = "relIdList"
)

// AllKeys lists every field in a stable order.
var AllKeys = []Key{KeyEvents, KeySiteCounts, KeyCategoryCounts, KeySeenItems}

// CounterKeys are the three fields the click log updates together.
var CounterKeys = []Key{KeyEvents, KeySiteCounts, KeyCategoryCounts}

// Record is the decoded state of one profile. Fields that were not loaded,
// or never written, are empty but non-nil.
type Record struct {
	Events         []models.ClickEvent
	SiteCounts     models.Counts
	CategoryCounts models.Counts
	SeenItems      []string
}

// NewRecord returns an empty record with every field initialised.
func NewRecord() *Record {
	r := &Record{}
	r.normalize()
	return r
}

func (r *Record) normalize() {
	if r.Events == nil {
		r.Events = []models.ClickEvent{}
	}
	if r.SiteCounts == nil {
		r.SiteCounts = models.Counts{}
	}
	if r.CategoryCounts == nil {
		r.CategoryCounts = models.Counts{}
	}
	if r.SeenItems == nil {
		r.SeenItems = []string{}
	}
}

// Store is the persistence port used by the click log, the seen registry and
// the recommendation engine.
type Store interface {
	// Load returns the named fields (all fields when keys is empty). Missing
	// fields decode as empty values, so a first visit needs no setup.
	Load(ctx context.Context, profile string, keys ...Key) (*Record, error)

	// Save writes exactly the named fields of rec as one atomic unit.
	Save(ctx context.Context, profile string, rec *Record, keys ...Key) error

	// Delete removes every field of the profile.
	Delete(ctx context.Context, profile string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// ErrPersistence matches every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence error")

// ErrUnknownKey is returned for a field name outside AllKeys.
var ErrUnknownKey = errors.New("unknown storage key")

// PersistenceError reports a failed load or save. The operation that
// triggered it was abandoned and no state was changed.
type PersistenceError struct {
	Op      string
	Backend string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) true.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func keysOrAll(keys []Key) []Key {
	if len(keys) == 0 {
		return AllKeys
	}
	return keys
}

// encodeField serialises one field of rec.
func encodeField(rec *Record, key Key) ([]byte, error) {
	switch key {
	case KeyEvents:
		return json.Marshal(rec.Events)
	case KeySiteCounts:
		return json.Marshal(rec.SiteCounts)
	case KeyCategoryCounts:
		return json.Marshal(rec.CategoryCounts)
	case KeySeenItems:
		return json.Marshal(rec.SeenItems)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

// decodeField fills one field of rec from data.
func decodeField(rec *Record, key Key, data []byte) error {
	var err error
	switch key {
	case KeyEvents:
		err = json.Unmarshal(data, &rec.Events)
	case KeySiteCounts:
		err = json.Unmarshal(data, &rec.SiteCounts)
	case KeyCategoryCounts:
		err = json.Unmarshal(data, &rec.CategoryCounts)
	case KeySeenItems:
		err = json.Unmarshal(data, &rec.SeenItems)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// encodeFields encodes every requested field up front, so a serialisation
// failure aborts the save before the backend is touched.
func encodeFields(rec *Record, keys []Key) (map[Key][]byte, error) {
	if rec == nil {
		return nil, errors.New("nil record")
	}
	out := make(map[Key][]byte, len(keys))
	for _, k := range keys {
		data, err := encodeField(rec, k)
		if err != nil {
			return nil, err
		}
		out[k] = data
	}
	return out, nil
}

func validateKeys(keys []Key) error {
	for _, k := range keys {
		switch k {
		case KeyEvents, KeySiteCounts, KeyCategoryCounts, KeySeenItems:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
	}
	return nil
}

// AsPersistenceError returns err unchanged when it already matches
// ErrPersistence and wraps it otherwise.
func AsPersistenceError(op string, err error) error {
	if err == nil || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Backend: "store", Err: err}
}

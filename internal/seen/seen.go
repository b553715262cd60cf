// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package seen tracks which articles a profile has already been shown or
// has clicked, so they are not recommended again.
package seen

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

// MaxItems is the capacity of the seen list.
const MaxItems = 500

// ErrEmptyItemID is returned for an empty article ID.
var ErrEmptyItemID = errors.New("empty item id")

// Add appends id unless it is already present, then drops the oldest
// entries while the list exceeds MaxItems. It returns the updated list,
// whether id was added and how many entries were evicted.
func Add(list []string, id string) ([]string, bool, int) {
	for _, existing := range list {
		if existing == id {
			return list, false, 0
		}
	}
	list = append(list, id)
	evicted := 0
	if over := len(list) - MaxItems; over > 0 {
		list = append([]string(nil), list[over:]...)
		evicted = over
	}
	return list, true, evicted
}

// Contains reports whether id is in list.
func Contains(list []string, id string) bool {
	for _, existing := range list {
		if existing == id {
			return true
		}
	}
	return false
}

// Set returns list as a lookup set.
func Set(list []string) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, id := range list {
		out[id] = struct{}{}
	}
	return out
}

// Registry persists per-profile seen lists.
type Registry struct {
	store  storage.Store
	locker *storage.Locker
	logger zerolog.Logger
}

// NewRegistry creates a Registry. Pass the same Locker as the click tracker.
func NewRegistry(store storage.Store, locker *storage.Locker) *Registry {
	if locker == nil {
		locker = storage.NewLocker()
	}
	return &Registry{
		store:  store,
		locker: locker,
		logger: logging.WithComponent("seen"),
	}
}

// WithLogger replaces the registry's logger.
func (r *Registry) WithLogger(logger zerolog.Logger) *Registry {
	r.logger = logger
	return r
}

// MarkSeen records id for profile. It saves only when the list changed and
// reports whether id was new.
func (r *Registry) MarkSeen(ctx context.Context, profile, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyItemID
	}

	unlock := r.locker.Lock(profile)
	defer unlock()

	rec, err := r.store.Load(ctx, profile, storage.KeySeenItems)
	if err != nil {
		err = storage.AsPersistenceError("load", err)
		r.logger.Error().Err(err).Str("profile", logging.MaskID(profile)).Msg("Failed to load seen items")
		return false, err
	}

	list, added, evicted := Add(rec.SeenItems, id)
	if !added {
		metrics.RecordSeen(false, 0)
		return false, nil
	}

	rec.SeenItems = list
	if err := r.store.Save(ctx, profile, rec, storage.KeySeenItems); err != nil {
		err = storage.AsPersistenceError("save", err)
		r.logger.Error().Err(err).Str("profile", logging.MaskID(profile)).Msg("Failed to save seen items")
		return false, err
	}

	metrics.RecordSeen(true, evicted)
	r.logger.Debug().
		Str("profile", logging.MaskID(profile)).
		Str("item_id", id).
		Int("size", len(list)).
		Msg("Item marked seen")
	return true, nil
}

// HasSeen reports whether profile has seen id.
func (r *Registry) HasSeen(ctx context.Context, profile, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyItemID
	}
	items, err := r.Items(ctx, profile)
	if err != nil {
		return false, err
	}
	return Contains(items, id), nil
}

// Items returns the profile's seen list, oldest first.
func (r *Registry) Items(ctx context.Context, profile string) ([]string, error) {
	rec, err := r.store.Load(ctx, profile, storage.KeySeenItems)
	if err != nil {
		return nil, storage.AsPersistenceError("load", err)
	}
	return rec.SeenItems, nil
}

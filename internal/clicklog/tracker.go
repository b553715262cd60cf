// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package clicklog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
	"github.com/sanchomuzax/hirstart-recosys/internal/models"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

// Click is a resolved click, before it is timestamped.
type Click struct {
	Site     string
	Category string
	ItemID   string
}

// Result describes a recorded click.
type Result struct {
	Event   models.ClickEvent   `json:"event"`
	Evicted []models.ClickEvent `json:"evicted,omitempty"`
	State   *State              `json:"-"`
}

// Tracker records clicks for profiles through a storage.Store.
type Tracker struct {
	store  storage.Store
	locker *storage.Locker
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the tracker's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// NewTracker creates a Tracker. A nil locker gets a private one; share a
// Locker with the seen registry so a profile's writes are serialised.
func NewTracker(store storage.Store, locker *storage.Locker, opts ...Option) *Tracker {
	if locker == nil {
		locker = storage.NewLocker()
	}
	t := &Tracker{
		store:  store,
		locker: locker,
		now:    time.Now,
		logger: logging.WithComponent("clicklog"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordClick timestamps click, appends it to the profile's log and persists
// the log and both counter maps in one save. On failure nothing is changed.
func (t *Tracker) RecordClick(ctx context.Context, profile string, click Click) (*Result, error) {
	if click.Site == "" {
		return nil, ErrEmptySite
	}

	unlock := t.locker.Lock(profile)
	defer unlock()

	state, err := t.load(ctx, profile)
	if err != nil {
		t.logger.Error().Err(err).Str("profile", logging.MaskID(profile)).Msg("Failed to load click state")
		return nil, err
	}

	ev := models.ClickEvent{
		Site:      click.Site,
		Timestamp: t.now().UnixMilli(),
		Category:  click.Category,
		ItemID:    click.ItemID,
	}
	evicted := state.Append(ev)

	rec := &storage.Record{
		Events:         state.Events,
		SiteCounts:     state.SiteCounts,
		CategoryCounts: state.CategoryCounts,
	}
	if err := t.store.Save(ctx, profile, rec, storage.CounterKeys...); err != nil {
		err = storage.AsPersistenceError("save", err)
		t.logger.Error().Err(err).Str("profile", logging.MaskID(profile)).Msg("Failed to save click state")
		return nil, err
	}

	metrics.RecordClick(ev.HasCategory(), len(evicted))
	t.logger.Debug().
		Str("profile", logging.MaskID(profile)).
		Str("site", ev.Site).
		Str("category", ev.Category).
		Int("events", len(state.Events)).
		Int("evicted", len(evicted)).
		Msg("Click recorded")

	return &Result{Event: ev, Evicted: evicted, State: state}, nil
}

// Snapshot returns the profile's current click state.
func (t *Tracker) Snapshot(ctx context.Context, profile string) (*State, error) {
	return t.load(ctx, profile)
}

func (t *Tracker) load(ctx context.Context, profile string) (*State, error) {
	rec, err := t.store.Load(ctx, profile, storage.CounterKeys...)
	if err != nil {
		return nil, storage.AsPersistenceError("load", err)
	}
	return &State{
		Events:         rec.Events,
		SiteCounts:     rec.SiteCounts,
		CategoryCounts: rec.CategoryCounts,
	}, nil
}

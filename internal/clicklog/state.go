// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package clicklog maintains a profile's bounded click history and the
// per-site and per-category counters derived from it.
//
// The counters always equal the number of retained events that reference
// each key. When the log grows past MaxEvents the oldest events are evicted
// and their counts rolled back; keys that reach zero are removed.
package clicklog

import (
	"errors"
	"fmt"

	"github.com/sanchomuzax/hirstart-recosys/internal/models"
)

// MaxEvents is the click log capacity.
const MaxEvents = 200

// ErrEmptySite is returned when a click has no site.
var ErrEmptySite = errors.New("click has empty site")

// State is the in-memory form of the three counter fields.
type State struct {
	Events         []models.ClickEvent `json:"events"`
	SiteCounts     models.Counts      `json:"siteCounts"`
	CategoryCounts models.Counts      `json:"categoryCounts"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Events:         []models.ClickEvent{},
		SiteCounts:     models.Counts{},
		CategoryCounts: models.Counts{},
	}
}

// Append adds ev, updates the counters and evicts the oldest events while
// the log is over capacity. It returns the evicted events, oldest first.
func (s *State) Append(ev models.ClickEvent) []models.ClickEvent {
	s.Events = append(s.Events, ev)
	s.SiteCounts.Inc(ev.Site)
	if ev.HasCategory() {
		s.CategoryCounts.Inc(ev.Category)
	}

	var evicted []models.ClickEvent
	for len(s.Events) > MaxEvents {
		old := s.Events[0]
		s.Events = s.Events[1:]
		s.SiteCounts.Dec(old.Site)
		if old.HasCategory() {
			s.CategoryCounts.Dec(old.Category)
		}
		evicted = append(evicted, old)
	}
	if len(evicted) > 0 {
		// Drop the evicted prefix from the backing array.
		s.Events = append([]models.ClickEvent(nil), s.Events...)
	}
	return evicted
}

// Verify checks the capacity bound and that every counter equals the number
// of retained events referencing it.
func (s *State) Verify() error {
	if len(s.Events) > MaxEvents {
		return fmt.Errorf("event log holds %d events, capacity is %d", len(s.Events), MaxEvents)
	}

	sites := models.Counts{}
	categories := models.Counts{}
	for _, ev := range s.Events {
		sites.Inc(ev.Site)
		if ev.HasCategory() {
			categories.Inc(ev.Category)
		}
	}
	if err := compareCounts("site", sites, s.SiteCounts); err != nil {
		return err
	}
	return compareCounts("category", categories, s.CategoryCounts)
}

func compareCounts(kind string, want, got models.Counts) error {
	for k, n := range want {
		if got[k] != n {
			return fmt.Errorf("%s count for %q is %d, log holds %d", kind, k, got[k], n)
		}
	}
	for k, n := range got {
		if _, ok := want[k]; !ok {
			return fmt.Errorf("%s count for %q is %d, log holds none", kind, k, n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	return &State{
		Events:         append([]models.ClickEvent{}, s.Events...),
		SiteCounts:     s.SiteCounts.Clone(),
		CategoryCounts: s.CategoryCounts.Clone(),
	}
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package stats builds the diagnostic summary of a profile's statistics
// shown in the info panel.
package stats

import (
	"sort"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/models"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
)

const (
	// DisplayCount is how many recent clicks the summary lists.
	DisplayCount = 5
	// TopCount is the length of the top site and top category lists.
	TopCount = 10
)

// Entry is one line of a top list.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Summary is a read-only view of one profile.
type Summary struct {
	RecentClicks  []models.ClickEvent `json:"recent_clicks" yaml:"recent_clicks"`
	TopSites      []Entry             `json:"top_sites" yaml:"top_sites"`
	TopCategories []Entry             `json:"top_categories" yaml:"top_categories"`
	DistinctSites int                 `json:"distinct_sites" yaml:"distinct_sites"`
	DistinctCats  int                 `json:"distinct_categories" yaml:"distinct_categories"`
	TotalClicks   int                 `json:"total_clicks" yaml:"total_clicks"`
	MaxEvents     int                 `json:"max_events" yaml:"max_events"`
	SeenCount     int                 `json:"seen_count" yaml:"seen_count"`
	MaxSeen       int                 `json:"max_seen" yaml:"max_seen"`
	GeneratedAt   time.Time           `json:"generated_at" yaml:"generated_at"`
}

// Build summarises state and the seen list. A nil state is treated as empty.
func Build(state *clicklog.State, seenItems []string) Summary {
	if state == nil {
		state = clicklog.NewState()
	}
	return Summary{
		RecentClicks:  recent(state.Events, DisplayCount),
		TopSites:      Top(state.SiteCounts, TopCount),
		TopCategories: Top(state.CategoryCounts, TopCount),
		DistinctSites: len(state.SiteCounts),
		DistinctCats:  len(state.CategoryCounts),
		TotalClicks:   len(state.Events),
		MaxEvents:     clicklog.MaxEvents,
		SeenCount:     len(seenItems),
		MaxSeen:       seen.MaxItems,
		GeneratedAt:   time.Now().UTC(),
	}
}

// recent returns the last n events, newest first.
func recent(events []models.ClickEvent, n int) []models.ClickEvent {
	if len(events) < n {
		n = len(events)
	}
	out := make([]models.ClickEvent, 0, n)
	for i := len(events) - 1; i >= len(events)-n; i-- {
		out = append(out, events[i])
	}
	return out
}

// Top returns the n largest counts, ordered by count descending and then
// key ascending.
func Top(counts models.Counts, n int) []Entry {
	entries := make([]Entry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, Entry{Key: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package models holds the data types shared between the recosys packages
// and the JSON shapes of the HTTP API.
package models

import "time"

// ClickEvent is one observed outbound click. Events are immutable once
// appended to a profile's log.
//
// JSON field names match the persisted record layout of the browser
// extension ("domain", "relId") so existing exports load unchanged.
type ClickEvent struct {
	Site      string `json:"domain" yaml:"domain"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
	ItemID    string `json:"relId,omitempty" yaml:"relId,omitempty"`
}

// Time returns the click time. Timestamp is in milliseconds since the epoch.
func (e ClickEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// HasCategory reports whether the click carried a category.
func (e ClickEvent) HasCategory() bool {
	return e.Category != ""
}

// Counts maps a key (site or category) to the number of retained events
// referencing it. Keys whose count reaches zero are removed.
type Counts map[string]int

// Inc increments key by one.
func (c Counts) Inc(key string) {
	c[key]++
}

// Dec decrements key by one and deletes it at zero. Decrementing an absent
// key is a no-op.
func (c Counts) Dec(key string) {
	n, ok := c[key]
	if !ok {
		return
	}
	if n <= 1 {
		delete(c, key)
		return
	}
	c[key] = n - 1
}

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

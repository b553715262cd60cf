// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package recommend

import "time"

// Candidate is one article found on the page.
type Candidate struct {
	// Site is the article's source hostname, without "www.".
	Site string `json:"site"`

	// Category is the article's content category. Empty when unknown.
	Category string `json:"category,omitempty"`

	// ItemID is the portal's article identifier. Empty when it could not be
	// parsed; such candidates are never selected.
	ItemID string `json:"item_id,omitempty"`

	// URL is the article link, for display.
	URL string `json:"url,omitempty"`

	// Title is the link text, for display.
	Title string `json:"title,omitempty"`

	// Visible is false when the article is hidden on the page.
	Visible bool `json:"visible"`

	// Position is the candidate's index in page (discovery) order.
	Position int `json:"position"`

	// Score is set during ranking.
	Score int `json:"score"`
}

// Counters are the statistics selection reads.
type Counters struct {
	Sites      map[string]int
	Categories map[string]int
}

// Response is the result of one recommendation request.
type Response struct {
	// Selected is the chosen candidate, nil when nothing qualified.
	Selected *Candidate `json:"selected"`

	// Eligible is the number of candidates that passed filtering.
	Eligible int `json:"eligible"`

	// Scanned is the number of candidates examined.
	Scanned int `json:"scanned"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Dismissed is the item marked seen before selection, for Dismiss.
	Dismissed string `json:"dismissed,omitempty"`

	// LatencyMS is the total latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// GeneratedAt is when the response was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// Metrics are engine-level counters.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// SelectedCount is the number of requests that produced a selection.
	SelectedCount int64 `json:"selected_count"`

	// EmptyCount is the number of requests where nothing qualified.
	EmptyCount int64 `json:"empty_count"`

	// ErrorCount is the number of failed requests.
	ErrorCount int64 `json:"error_count"`
}

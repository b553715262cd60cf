// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Click log metrics
	ClicksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_clicks_recorded_total",
			Help: "Total number of click events appended to a profile log",
		},
		[]string{"has_category"},
	)

	ClicksIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_clicks_ignored_total",
			Help: "Clicks that were not recorded as events",
		},
		[]string{"reason"}, // "host_site", "no_site"
	)

	EventsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recosys_events_evicted_total",
			Help: "Click events evicted from full logs, with counter rollback",
		},
	)

	// Seen registry metrics
	SeenMarked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_seen_marked_total",
			Help: "markSeen calls by outcome",
		},
		[]string{"outcome"}, // "added", "duplicate"
	)

	SeenEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recosys_seen_evicted_total",
			Help: "Item IDs evicted from full seen lists",
		},
	)

	// Selector metrics
	Selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_selections_total",
			Help: "Recommendation selections by outcome",
		},
		[]string{"outcome"}, // "selected", "none"
	)

	CandidatesScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recosys_candidates_scanned",
			Help:    "Candidates presented to the selector per pass",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200},
		},
	)

	CandidatesEligible = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recosys_candidates_eligible",
			Help:    "Candidates surviving the selector filters per pass",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_parse_errors_total",
			Help: "Candidates excluded because a link could not be parsed",
		},
		[]string{"field"}, // "site", "category", "item_id"
	)

	// Storage metrics
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recosys_storage_op_duration_seconds",
			Help:    "Duration of profile store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_persistence_errors_total",
			Help: "Profile store failures; the triggering operation was abandoned",
		},
		[]string{"backend", "operation"},
	)

	// Page fetch metrics
	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_page_fetches_total",
			Help: "Portal page fetches by result",
		},
		[]string{"result"}, // "ok", "error", "cached", "breaker_open"
	)

	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recosys_page_fetch_duration_seconds",
			Help:    "Portal page fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recosys_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Event bus metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_bus_events_published_total",
			Help: "Domain events published on the event bus",
		},
		[]string{"topic"},
	)

	EventsPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recosys_bus_publish_errors_total",
			Help: "Domain events that failed to publish",
		},
		[]string{"topic"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total WebSocket messages sent",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "WebSocket messages dropped because a buffer was full",
		},
	)
)

// RecordClick records an appended click and the number of events it evicted.
func RecordClick(hasCategory bool, evicted int) {
	label := "false"
	if hasCategory {
		label = "true"
	}
	ClicksRecorded.WithLabelValues(label).Inc()
	if evicted > 0 {
		EventsEvicted.Add(float64(evicted))
	}
}

// RecordIgnoredClick records a click that was deliberately not logged.
func RecordIgnoredClick(reason string) {
	ClicksIgnored.WithLabelValues(reason).Inc()
}

// RecordSeen records a markSeen outcome.
func RecordSeen(added bool, evicted int) {
	if !added {
		SeenMarked.WithLabelValues("duplicate").Inc()
		return
	}
	SeenMarked.WithLabelValues("added").Inc()
	if evicted > 0 {
		SeenEvicted.Add(float64(evicted))
	}
}

// RecordSelection records one selector pass.
func RecordSelection(scanned, eligible int, selected bool) {
	CandidatesScanned.Observe(float64(scanned))
	CandidatesEligible.Observe(float64(eligible))
	if selected {
		Selections.WithLabelValues("selected").Inc()
	} else {
		Selections.WithLabelValues("none").Inc()
	}
}

// RecordParseError records a candidate excluded because field could not be parsed.
func RecordParseError(field string) {
	ParseErrors.WithLabelValues(field).Inc()
}

// RecordStorageOp records a store operation and, on failure, a persistence error.
func RecordStorageOp(backend, operation string, duration time.Duration, err error) {
	StorageOpDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		PersistenceErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordPageFetch records a portal page fetch result.
func RecordPageFetch(result string, duration time.Duration) {
	PageFetches.WithLabelValues(result).Inc()
	if duration > 0 {
		PageFetchDuration.Observe(duration.Seconds())
	}
}

// SetCircuitBreakerState publishes a breaker state (0=closed, 1=half-open, 2=open).
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordEventPublish records an event bus publish.
func RecordEventPublish(topic string, err error) {
	if err != nil {
		EventsPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
)

// selectionKeys are the fields one selection pass reads, loaded together so
// counters and the seen list come from the same snapshot.
var selectionKeys = []storage.Key{
	storage.KeySiteCounts,
	storage.KeyCategoryCounts,
	storage.KeySeenItems,
}

// Engine loads a profile's statistics and runs the Selector over a page's
// candidates. It is safe for concurrent use.
type Engine struct {
	config   *Config
	store    storage.Store
	registry *seen.Registry
	selector *Selector
	logger   zerolog.Logger

	requestCount  atomic.Int64
	selectedCount atomic.Int64
	emptyCount    atomic.Int64
	errorCount    atomic.Int64
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig and a nil
// selector draws from NewSeededRand(cfg.Seed).
func NewEngine(cfg *Config, store storage.Store, registry *seen.Registry, selector *Selector) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if selector == nil {
		selector = NewSelector(NewSeededRand(cfg.Seed))
	}
	return &Engine{
		config:   cfg,
		store:    store,
		registry: registry,
		selector: selector,
		logger:   logging.WithComponent("recommend"),
	}, nil
}

// SetLogger replaces the engine's logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) SetLogger(logger zerolog.Logger) {
	e.logger = logger.With().Str("component", "recommend").Logger()
}

// Recommend selects one candidate for profile. A nil Response.Selected means
// nothing qualified.
func (e *Engine) Recommend(ctx context.Context, profile string, candidates []Candidate) (*Response, error) {
	return e.recommend(ctx, profile, candidates, "")
}

// Dismiss marks itemID seen and selects again, so the dismissed article is
// replaced by the next best one.
func (e *Engine) Dismiss(ctx context.Context, profile, itemID string, candidates []Candidate) (*Response, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.registry.MarkSeen(ctx, profile, itemID); err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("mark dismissed item seen: %w", err)
	}
	return e.recommend(ctx, profile, candidates, itemID)
}

// Explain returns every eligible candidate, scored and ranked, without
// picking one.
func (e *Engine) Explain(ctx context.Context, profile string, candidates []Candidate) ([]Candidate, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	counts, seenSet, err := e.loadInputs(ctx, profile)
	if err != nil {
		return nil, err
	}
	return e.selector.Rank(counts, seenSet, candidates), nil
}

func (e *Engine) recommend(ctx context.Context, profile string, candidates []Candidate, dismissed string) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("profile", logging.MaskID(profile)).
		Logger()

	counts, seenSet, err := e.loadInputs(ctx, profile)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("Failed to load selection inputs")
		return nil, err
	}

	ranked := e.selector.Rank(counts, seenSet, candidates)
	selected, ok := e.selector.pick(ranked)

	resp := &Response{
		Eligible: len(ranked),
		Scanned:  len(candidates),
		Metadata: ResponseMetadata{
			RequestID:   requestID,
			Dismissed:   dismissed,
			LatencyMS:   time.Since(start).Milliseconds(),
			GeneratedAt: time.Now().UTC(),
		},
	}
	if ok {
		resp.Selected = &selected
		e.selectedCount.Add(1)
	} else {
		e.emptyCount.Add(1)
	}
	metrics.RecordSelection(len(candidates), len(ranked), ok)

	event := logger.Debug().
		Int("scanned", len(candidates)).
		Int("eligible", len(ranked)).
		Int64("latency_ms", resp.Metadata.LatencyMS)
	if ok {
		event = event.Str("site", selected.Site).Str("item_id", selected.ItemID).Int("score", selected.Score)
	}
	event.Msg("Recommendation complete")

	return resp, nil
}

func (e *Engine) loadInputs(ctx context.Context, profile string) (Counters, map[string]struct{}, error) {
	rec, err := e.store.Load(ctx, profile, selectionKeys...)
	if err != nil {
		return Counters{}, nil, storage.AsPersistenceError("load", err)
	}
	counts := Counters{Sites: rec.SiteCounts, Categories: rec.CategoryCounts}
	return counts, seen.Set(rec.SeenItems), nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.config.Timeout)
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		SelectedCount: e.selectedCount.Load(),
		EmptyCount:    e.emptyCount.Load(),
		ErrorCount:    e.errorCount.Load(),
	}
}

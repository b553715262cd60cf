// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

// Package recommend picks one article to highlight from those on the
// current page, using the profile's click statistics.
//
// # Algorithm
//
// Selection runs in a single pass over the page's candidates:
//
//  1. Candidates that are hidden or have no site are dropped.
//  2. Candidates whose site the profile never clicked are dropped.
//  3. Candidates without an item ID, or already seen, are dropped.
//  4. Each survivor scores SiteCounts[site], multiplied by
//     CategoryCounts[category] when the category is known. An unknown
//     category multiplies by one, so category refines but never gates.
//  5. Survivors are stably sorted by score, highest first; ties keep page
//     order.
//  6. One of the top TopK is picked uniformly at random.
//
// When nothing survives, Select reports ok=false. That is a normal outcome
// and no highlight is shown.
//
// # Determinism
//
// Randomness comes from a RandSource. NewSeededRand gives a concurrency-safe
// source, reproducible for a non-zero seed and clock-seeded for zero;
// tests inject fixed sources.
//
// # Usage
//
//	sel := recommend.NewSelector(recommend.NewSeededRand(cfg.Seed))
//	engine := recommend.NewEngine(cfg, store, registry, sel)
//
//	resp, err := engine.Recommend(ctx, profile, candidates)
//	if err != nil {
//	    return err
//	}
//	if resp.Selected == nil {
//	    // nothing to highlight
//	}
package recommend

// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package recommend

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// RandSource supplies the uniform pick among the top candidates.
type RandSource interface {
	// Intn returns a value in [0, n). n is always positive.
	Intn(n int) int
}

// lockedRand is a math/rand source safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRand returns a concurrency-safe RandSource. A non-zero seed gives
// a reproducible sequence; zero seeds from the clock.
func NewSeededRand(seed int64) RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // math/rand is fine for picking a highlight
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Selector implements the filtering, scoring and top-K pick.
type Selector struct {
	rand RandSource
}

// NewSelector creates a Selector drawing from src.
func NewSelector(src RandSource) *Selector {
	if src == nil {
		src = NewSeededRand(0)
	}
	return &Selector{rand: src}
}

// Rank returns the eligible candidates with Score set, highest first. Ties
// keep their input order. The input slice is not modified.
func (s *Selector) Rank(counts Counters, seen map[string]struct{}, candidates []Candidate) []Candidate {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Visible || c.Site == "" {
			continue
		}
		siteCount, ok := counts.Sites[c.Site]
		if !ok || siteCount <= 0 {
			continue
		}
		if c.ItemID == "" {
			continue
		}
		if _, isSeen := seen[c.ItemID]; isSeen {
			continue
		}

		c.Score = siteCount * categoryFactor(counts.Categories, c.Category)
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	return eligible
}

// Select ranks candidates and picks one of the top TopK uniformly.
func (s *Selector) Select(counts Counters, seen map[string]struct{}, candidates []Candidate) (Candidate, bool) {
	ranked := s.Rank(counts, seen, candidates)
	return s.pick(ranked)
}

func (s *Selector) pick(ranked []Candidate) (Candidate, bool) {
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	top := ranked
	if len(top) > TopK {
		top = top[:TopK]
	}
	return top[s.rand.Intn(len(top))], true
}

func categoryFactor(categories map[string]int, category string) int {
	if category == "" {
		return 1
	}
	if n, ok := categories[category]; ok && n > 0 {
		return n
	}
	return 1
}

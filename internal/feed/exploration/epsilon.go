// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"golang.org/x/exp/rand"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

// epsilonGreedy samples the tail pool uniformly. It never consults the
// author statistics; stats are still recorded through the feedback path
// so strategies can be compared after the fact.
type epsilonGreedy struct{}

// Name returns the strategy tag.
func (e *epsilonGreedy) Name() string {
	return string(feed.StrategyEpsilonGreedy)
}

// Select draws n posts uniformly without replacement.
func (e *epsilonGreedy) Select(pool []feed.RankedPost, n int, _ *statsStore, rng *rand.Rand) []feed.RankedPost {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	perm := rng.Perm(len(pool))
	out := make([]feed.RankedPost, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}

var _ strategy = (*epsilonGreedy)(nil)

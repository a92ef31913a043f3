// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

// strategy selects exploration candidates from the tail pool. The set of
// implementations is closed: epsilon-greedy, Thompson Sampling and UCB1.
// All selection is deterministic given the rng's seed.
type strategy interface {
	// Name returns the strategy tag.
	Name() string

	// Select picks up to n posts from the pool, best exploration
	// candidates first.
	Select(pool []feed.RankedPost, n int, stats *statsStore, rng *rand.Rand) []feed.RankedPost
}

// newStrategy is the single dispatch point over the closed strategy set.
// An unknown tag is a configuration error, surfaced here at construction
// rather than during a ranking call.
func newStrategy(cfg feed.ExplorationConfig) (strategy, error) {
	switch cfg.Strategy {
	case feed.StrategyEpsilonGreedy:
		return &epsilonGreedy{}, nil
	case feed.StrategyThompson:
		return &thompsonSampling{}, nil
	case feed.StrategyUCB1:
		return &ucb1{c: cfg.UCBC, blend: cfg.UCBBlendWeight}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", feed.ErrInvalidConfig, cfg.Strategy)
	}
}

// scoredPick pairs a pool post with its strategy score.
type scoredPick struct {
	post  feed.RankedPost
	score float64
}

// takeTop sorts picks by descending score with a stable tie-break on
// post ID and returns the first n posts.
func takeTop(picks []scoredPick, n int) []feed.RankedPost {
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].score != picks[j].score {
			return picks[i].score > picks[j].score
		}
		return picks[i].post.Post.ID < picks[j].post.Post.ID
	})

	if n > len(picks) {
		n = len(picks)
	}
	out := make([]feed.RankedPost, 0, n)
	for _, p := range picks[:n] {
		out = append(out, p.post)
	}
	return out
}

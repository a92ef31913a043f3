// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

// ucb1 scores each tail-pool author by empirical rate plus a confidence
// bonus that shrinks with observation count:
//
//	UCB(a) = rate(a) + c * sqrt(ln(totalTrials) / max(1, trials(a)))
//
// Authors never seen before get an unbounded bonus so they are tried at
// least once (standard UCB cold-start handling). The blend weight mixes
// the UCB score with the original ranking score; 1.0 disables blending.
type ucb1 struct {
	c     float64
	blend float64
}

// Name returns the strategy tag.
func (u *ucb1) Name() string {
	return string(feed.StrategyUCB1)
}

// Select scores the pool by blended UCB scores and takes the top n.
// Selection is deterministic; the rng is unused.
func (u *ucb1) Select(pool []feed.RankedPost, n int, stats *statsStore, _ *rand.Rand) []feed.RankedPost {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	totalTrials := stats.TotalTrials()

	picks := make([]scoredPick, 0, len(pool))
	for i := range pool {
		stat, _ := stats.Get(pool[i].Post.AuthorID)
		score := ucbScore(stat, totalTrials, u.c)
		if !math.IsInf(score, 1) {
			score = u.blend*score + (1-u.blend)*pool[i].Explanation.TotalScore
		}
		picks = append(picks, scoredPick{post: pool[i], score: score})
	}

	return takeTop(picks, n)
}

// ucbScore computes the raw UCB1 score for one author.
func ucbScore(stat AuthorStat, totalTrials uint64, c float64) float64 {
	if stat.Trials == 0 {
		return math.Inf(1)
	}

	if totalTrials < 1 {
		totalTrials = 1
	}
	bonus := c * math.Sqrt(math.Log(float64(totalTrials))/float64(stat.Trials))

	return stat.EmpiricalRate() + bonus
}

var _ strategy = (*ucb1)(nil)

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

// Thompson blend: sampled engagement probability versus the original
// ranking score.
const (
	thetaWeight    = 0.6
	originalWeight = 0.4
)

// thompsonSampling scores each tail-pool author by drawing from the
// Beta posterior over its engagement rate:
//
//	theta ~ Beta(1 + successes, 1 + failures)
//
// The Beta(1,1) prior is uninformative; the posterior concentrates as
// trials grow, which naturally decays exploration for well-observed
// authors while keeping novel authors competitive.
type thompsonSampling struct{}

// Name returns the strategy tag.
func (t *thompsonSampling) Name() string {
	return string(feed.StrategyThompson)
}

// Select scores the pool by blended Thompson samples and takes the top n.
func (t *thompsonSampling) Select(pool []feed.RankedPost, n int, stats *statsStore, rng *rand.Rand) []feed.RankedPost {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	picks := make([]scoredPick, 0, len(pool))
	for i := range pool {
		stat, _ := stats.Get(pool[i].Post.AuthorID)
		theta := sampleBeta(stat, rng)
		blended := thetaBlend(theta, pool[i].Explanation.TotalScore)
		picks = append(picks, scoredPick{post: pool[i], score: blended})
	}

	return takeTop(picks, n)
}

// sampleBeta draws from the author's Beta posterior using the injected
// random source.
func sampleBeta(stat AuthorStat, rng *rand.Rand) float64 {
	dist := distuv.Beta{
		Alpha: 1 + float64(stat.Successes),
		Beta:  1 + float64(stat.Failures()),
		Src:   rng,
	}
	return dist.Rand()
}

func thetaBlend(theta, original float64) float64 {
	return thetaWeight*theta + originalWeight*original
}

var _ strategy = (*thompsonSampling)(nil)

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"reflect"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

func TestThompsonSampling_Select_Deterministic(t *testing.T) {
	pool := []feed.RankedPost{
		poolPost("p1", "a1", 0.5),
		poolPost("p2", "a2", 0.4),
		poolPost("p3", "a3", 0.3),
	}
	stats := newStatsStore()
	stats.Record("a1", true)
	stats.Record("a2", false)

	ts := &thompsonSampling{}

	a := ts.Select(pool, 2, stats, rand.New(rand.NewSource(11)))
	b := ts.Select(pool, 2, stats, rand.New(rand.NewSource(11)))

	if !reflect.DeepEqual(selectedIDs(a), selectedIDs(b)) {
		t.Errorf("selection differs for identical seeds: %v vs %v", selectedIDs(a), selectedIDs(b))
	}
}

func TestThompsonSampling_Select_PrefersHighEngagementAuthors(t *testing.T) {
	// a-good engages 90% of the time, a-bad 5%. With heavy evidence the
	// posteriors barely overlap, so the good author should dominate picks.
	stats := newStatsStore()
	for i := 0; i < 200; i++ {
		stats.Record("a-good", i%10 != 0)
		stats.Record("a-bad", i%20 == 0)
	}

	pool := []feed.RankedPost{
		poolPost("p-good", "a-good", 0.5),
		poolPost("p-bad", "a-bad", 0.5),
	}

	ts := &thompsonSampling{}
	rng := rand.New(rand.NewSource(42))

	goodWins := 0
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		got := ts.Select(pool, 1, stats, rng)
		if len(got) == 1 && got[0].Post.ID == "p-good" {
			goodWins++
		}
	}

	// Posterior separation makes ties vanishing; allow generous slack.
	if goodWins < rounds*9/10 {
		t.Errorf("high-engagement author selected %d/%d times, want >= %d", goodWins, rounds, rounds*9/10)
	}
}

func TestThompsonSampling_Select_ColdStartNotStarved(t *testing.T) {
	// A never-seen author keeps a flat Beta(1,1) posterior and should
	// still win a meaningful share against a mediocre incumbent.
	stats := newStatsStore()
	for i := 0; i < 100; i++ {
		stats.Record("incumbent", i%4 == 0) // 25% rate
	}

	pool := []feed.RankedPost{
		poolPost("p-new", "newcomer", 0.5),
		poolPost("p-old", "incumbent", 0.5),
	}

	ts := &thompsonSampling{}
	rng := rand.New(rand.NewSource(7))

	newWins := 0
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		got := ts.Select(pool, 1, stats, rng)
		if len(got) == 1 && got[0].Post.ID == "p-new" {
			newWins++
		}
	}

	if newWins < rounds/10 {
		t.Errorf("cold-start author selected %d/%d times, want a meaningful share", newWins, rounds)
	}
}

func TestThompsonSampling_Convergence(t *testing.T) {
	// Closed feedback loop: each round picks one post, rolls engagement
	// against the author's true rate and records the outcome. With true
	// rates 0.8 vs 0.2 the posterior mass separates quickly, so the
	// strong author's selection share converges well above the weak one.
	const trials = 10000

	trueRate := map[string]float64{"a-strong": 0.8, "a-weak": 0.2}
	pool := []feed.RankedPost{
		poolPost("p-strong", "a-strong", 0.5),
		poolPost("p-weak", "a-weak", 0.5),
	}

	stats := newStatsStore()
	ts := &thompsonSampling{}
	rng := rand.New(rand.NewSource(99))

	picks := map[string]int{}
	for i := 0; i < trials; i++ {
		got := ts.Select(pool, 1, stats, rng)
		if len(got) != 1 {
			t.Fatalf("trial %d: Select returned %d posts, want 1", i, len(got))
		}
		author := got[0].Post.AuthorID
		picks[author]++
		stats.Record(author, rng.Float64() < trueRate[author])
	}

	strongShare := float64(picks["a-strong"]) / trials
	if strongShare <= float64(picks["a-weak"])/trials {
		t.Fatalf("strong author share %.3f did not exceed weak author share", strongShare)
	}
	// Tolerance band: early exploration costs some rounds, but the
	// strong author should own the large majority of the run.
	if strongShare < 0.70 {
		t.Errorf("strong author selected %.3f of %d trials, want >= 0.70", strongShare, trials)
	}
}

func TestSampleBeta_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	stat := AuthorStat{Successes: 3, Trials: 10}

	for i := 0; i < 100; i++ {
		theta := sampleBeta(stat, rng)
		if theta < 0 || theta > 1 {
			t.Fatalf("sampleBeta() = %f, want in [0, 1]", theta)
		}
	}
}

func TestThetaBlend(t *testing.T) {
	if got := thetaBlend(1.0, 0.0); got != 0.6 {
		t.Errorf("thetaBlend(1, 0) = %f, want 0.6", got)
	}
	if got := thetaBlend(0.0, 1.0); got != 0.4 {
		t.Errorf("thetaBlend(0, 1) = %f, want 0.4", got)
	}
	if got := thetaBlend(0.5, 0.5); got != 0.5 {
		t.Errorf("thetaBlend(0.5, 0.5) = %f, want 0.5", got)
	}
}

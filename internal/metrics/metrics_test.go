// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRankingRequests tests the ranking request counter
func TestRankingRequests(t *testing.T) {
	before := testutil.ToFloat64(RankingRequests)
	RankingRequests.Inc()
	RankingRequests.Inc()
	after := testutil.ToFloat64(RankingRequests)
	if got := after - before; got != 2 {
		t.Errorf("RankingRequests delta = %v, want 2", got)
	}
}

// TestRankingErrors tests reason-labelled error counting
func TestRankingErrors(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		count  int
	}{
		{name: "invalid input", reason: "invalid_input", count: 3},
		{name: "invalid weights", reason: "invalid_weights", count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RankingErrors.WithLabelValues(tt.reason)
			before := testutil.ToFloat64(c)
			for i := 0; i < tt.count; i++ {
				c.Inc()
			}
			if got := testutil.ToFloat64(c) - before; got != float64(tt.count) {
				t.Errorf("RankingErrors{reason=%q} delta = %v, want %d", tt.reason, got, tt.count)
			}
		})
	}
}

// TestExplorationSlots tests per-strategy slot counting
func TestExplorationSlots(t *testing.T) {
	c := ExplorationSlots.WithLabelValues("epsilon_greedy")
	before := testutil.ToFloat64(c)
	c.Add(4)
	if got := testutil.ToFloat64(c) - before; got != 4 {
		t.Errorf("ExplorationSlots delta = %v, want 4", got)
	}
}

// TestAuthorsTracked tests gauge set semantics
func TestAuthorsTracked(t *testing.T) {
	AuthorsTracked.Set(17)
	if got := testutil.ToFloat64(AuthorsTracked); got != 17 {
		t.Errorf("AuthorsTracked = %v, want 17", got)
	}
	AuthorsTracked.Set(0)
	if got := testutil.ToFloat64(AuthorsTracked); got != 0 {
		t.Errorf("AuthorsTracked after reset = %v, want 0", got)
	}
}

// TestConcurrentIncrements verifies collectors tolerate concurrent writers
func TestConcurrentIncrements(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 100

	c := EngagementEvents.WithLabelValues("like")
	before := testutil.ToFloat64(c)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	want := float64(goroutines * perGoroutine)
	if got := testutil.ToFloat64(c) - before; got != want {
		t.Errorf("EngagementEvents delta = %v, want %v", got, want)
	}
}

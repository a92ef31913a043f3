// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/feed/exploration"
	"github.com/Limeload/x-recommendation-engine/internal/feed/reranking"
)

func fullPipeline(t *testing.T, cfg *feed.Config) *feed.Engine {
	t.Helper()
	if cfg == nil {
		cfg = feed.DefaultConfig()
	}

	engine, err := feed.NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	engine.RegisterReranker(reranking.NewDiversity(cfg.Diversity))

	explorer, err := exploration.NewEngine(cfg.Exploration, zerolog.Nop())
	if err != nil {
		t.Fatalf("exploration.NewEngine() error = %v", err)
	}
	engine.SetExplorer(explorer)

	return engine
}

func bulkCandidates(now time.Time, n int) []feed.Post {
	posts := make([]feed.Post, n)
	for i := range posts {
		posts[i] = feed.Post{
			ID:           fmt.Sprintf("post-%03d", i),
			AuthorID:     fmt.Sprintf("author-%d", i%10),
			CreatedAt:    now.Add(-time.Duration(i) * time.Hour),
			Likes:        (n - i) * 50,
			Topics:       []string{fmt.Sprintf("topic-%d", i%5)},
			QualityScore: 0.5,
		}
	}
	return posts
}

func TestPipeline_RecencyDominatedOrdering(t *testing.T) {
	// Three authors, recency is the only signal: freshest post first and
	// the recency components follow the half-life decay curve.
	now := time.Now()
	cfg := feed.DefaultConfig()
	cfg.Exploration.Rate = 0
	engine := fullPipeline(t, cfg)
	if err := engine.SetWeights(feed.Weights{Recency: 1}); err != nil {
		t.Fatalf("SetWeights() error = %v", err)
	}

	candidates := []feed.Post{
		{ID: "p-100h", AuthorID: "a3", CreatedAt: now.Add(-100 * time.Hour), QualityScore: 0.5},
		{ID: "p-1h", AuthorID: "a1", CreatedAt: now.Add(-1 * time.Hour), QualityScore: 0.5},
		{ID: "p-10h", AuthorID: "a2", CreatedAt: now.Add(-10 * time.Hour), QualityScore: 0.5},
	}

	resp, err := engine.Rank(context.Background(), &feed.Request{
		Candidates: candidates,
		Viewer:     feed.ViewerProfile{ID: "v1"},
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	wantOrder := []string{"p-1h", "p-10h", "p-100h"}
	wantRecency := []float64{0.9715, 0.7492, 0.0557}
	if len(resp.Posts) != len(wantOrder) {
		t.Fatalf("len(Posts) = %d, want %d", len(resp.Posts), len(wantOrder))
	}
	for i, rp := range resp.Posts {
		if rp.Post.ID != wantOrder[i] {
			t.Errorf("position %d = %q, want %q", i, rp.Post.ID, wantOrder[i])
		}
		got := rp.Explanation.Scores.Recency
		if diff := got - wantRecency[i]; diff < -0.001 || diff > 0.001 {
			t.Errorf("recency[%d] = %.4f, want %.4f within 1e-3", i, got, wantRecency[i])
		}
		if rp.Explanation.Weights.Recency != 1 {
			t.Errorf("echoed recency weight = %v, want 1", rp.Explanation.Weights.Recency)
		}
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	engine := fullPipeline(t, nil)
	now := time.Now()

	resp, err := engine.Rank(context.Background(), &feed.Request{
		Candidates: bulkCandidates(now, 100),
		Viewer:     feed.ViewerProfile{ID: "v1", Interests: []string{"topic-0"}},
		Limit:      20,
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if len(resp.Posts) != 20 {
		t.Fatalf("Rank() returned %d posts, want 20", len(resp.Posts))
	}
	if resp.TotalCandidates != 100 {
		t.Errorf("TotalCandidates = %d, want 100", resp.TotalCandidates)
	}
	if resp.Metadata.Strategy != "epsilon_greedy" {
		t.Errorf("Strategy = %q, want epsilon_greedy", resp.Metadata.Strategy)
	}
	if resp.Metadata.ExplorationSlots != 2 {
		// Default rate 0.10 of limit 20.
		t.Errorf("ExplorationSlots = %d, want 2", resp.Metadata.ExplorationSlots)
	}

	for i := range resp.Posts {
		p := &resp.Posts[i]
		if p.Rank != i+1 {
			t.Errorf("position %d Rank = %d", i, p.Rank)
		}
		if p.SelectedFor != feed.SlotExploitation && p.SelectedFor != feed.SlotExploration {
			t.Errorf("post %s SelectedFor = %q", p.Post.ID, p.SelectedFor)
		}
		if len(p.Explanation.KeyFactors) == 0 {
			t.Errorf("post %s has no key factors", p.Post.ID)
		}
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	req := func() *feed.Request {
		return &feed.Request{
			Candidates: bulkCandidates(now, 100),
			Viewer:     feed.ViewerProfile{ID: "v1"},
			Limit:      20,
			RequestID:  "fixed",
		}
	}

	// Two engines with identical config and no feedback history must
	// produce identical feeds for identical requests.
	a, err := fullPipeline(t, nil).Rank(context.Background(), req())
	if err != nil {
		t.Fatal(err)
	}
	b, err := fullPipeline(t, nil).Rank(context.Background(), req())
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Posts) != len(b.Posts) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Posts), len(b.Posts))
	}
	for i := range a.Posts {
		if a.Posts[i].Post.ID != b.Posts[i].Post.ID {
			t.Errorf("position %d differs: %s vs %s", i, a.Posts[i].Post.ID, b.Posts[i].Post.ID)
		}
	}
}

func TestPipeline_AuthorCapRespected(t *testing.T) {
	cfg := feed.DefaultConfig()
	cfg.Exploration.Rate = 0 // isolate the diversity behavior
	engine := fullPipeline(t, cfg)
	now := time.Now()

	// One author dominates the candidate set.
	posts := make([]feed.Post, 30)
	for i := range posts {
		author := "spammer"
		if i >= 20 {
			author = fmt.Sprintf("author-%d", i)
		}
		posts[i] = feed.Post{
			ID:           fmt.Sprintf("post-%03d", i),
			AuthorID:     author,
			CreatedAt:    now.Add(-time.Duration(i) * time.Minute),
			QualityScore: 0.5,
		}
	}

	resp, err := engine.Rank(context.Background(), &feed.Request{
		Candidates: posts,
		Viewer:     feed.ViewerProfile{ID: "v1"},
		Limit:      30,
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	// Entries beyond the per-author cap carry a diversity penalty.
	clean := 0
	for i := range resp.Posts {
		p := &resp.Posts[i]
		if p.Post.AuthorID == "spammer" && p.Explanation.DiversityPenalty == 0 {
			clean++
		}
	}
	if clean > cfg.Diversity.MaxPerAuthor {
		t.Errorf("%d penalty-free posts from one author, want at most %d", clean, cfg.Diversity.MaxPerAuthor)
	}
}

func TestPipeline_FeedbackLoop(t *testing.T) {
	cfg := feed.DefaultConfig()
	cfg.Exploration.Strategy = feed.StrategyUCB1
	engine := fullPipeline(t, cfg)
	now := time.Now()
	ctx := context.Background()

	candidates := bulkCandidates(now, 100)
	viewer := feed.ViewerProfile{ID: "v1"}

	// Drive engagement so UCB has evidence to rank the pool with.
	for round := 0; round < 20; round++ {
		resp, err := engine.Rank(ctx, &feed.Request{
			Candidates: candidates, Viewer: viewer, Limit: 20,
		})
		if err != nil {
			t.Fatalf("round %d: Rank() error = %v", round, err)
		}

		for i := range resp.Posts {
			post := &resp.Posts[i].Post
			typ := feed.EngagementNone
			if post.AuthorID == "author-7" {
				typ = feed.EngagementLike
			}
			if err := engine.RecordEngagement(post.ID, post.AuthorID, typ); err != nil {
				t.Fatalf("RecordEngagement() error = %v", err)
			}
		}
	}

	// A final ranked feed still works and marks exploration slots.
	resp, err := engine.Rank(ctx, &feed.Request{
		Candidates: candidates, Viewer: viewer, Limit: 20,
	})
	if err != nil {
		t.Fatalf("final Rank() error = %v", err)
	}
	if resp.Metadata.ExplorationSlots == 0 {
		t.Error("ExplorationSlots = 0, want exploration active")
	}

	stats, err := engine.ExplorationStats()
	if err != nil {
		t.Fatalf("ExplorationStats() error = %v", err)
	}
	if stats.AuthorsTracked == 0 {
		t.Error("AuthorsTracked = 0, want feedback recorded")
	}
	if stats.Strategy != string(feed.StrategyUCB1) {
		t.Errorf("Strategy = %q, want %q", stats.Strategy, feed.StrategyUCB1)
	}
	if stats.MeanEngagementRate <= 0 {
		t.Errorf("MeanEngagementRate = %v, want > 0", stats.MeanEngagementRate)
	}
}

func TestPipeline_RuntimeStrategySwitch(t *testing.T) {
	engine := fullPipeline(t, nil)
	ctx := context.Background()
	now := time.Now()

	cfg := feed.DefaultConfig().Exploration
	cfg.Strategy = feed.StrategyThompson
	if err := engine.SetStrategy(cfg); err != nil {
		t.Fatalf("SetStrategy() error = %v", err)
	}

	resp, err := engine.Rank(ctx, &feed.Request{
		Candidates: bulkCandidates(now, 50),
		Viewer:     feed.ViewerProfile{ID: "v1"},
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if resp.Metadata.Strategy != "thompson_sampling" {
		t.Errorf("Strategy = %q, want thompson_sampling", resp.Metadata.Strategy)
	}
}

func TestPipeline_ResetExploration(t *testing.T) {
	engine := fullPipeline(t, nil)

	if err := engine.RecordEngagement("p1", "alice", feed.EngagementLike); err != nil {
		t.Fatal(err)
	}
	engine.ResetExploration()

	// Ranking still works after a reset.
	resp, err := engine.Rank(context.Background(), &feed.Request{
		Candidates: bulkCandidates(time.Now(), 30),
		Viewer:     feed.ViewerProfile{ID: "v1"},
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("Rank() after reset error = %v", err)
	}
	if len(resp.Posts) != 10 {
		t.Errorf("Rank() returned %d posts, want 10", len(resp.Posts))
	}
}

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

// Package main is the entry point for rankbench, an offline harness for
// the feed ranking engine.
//
// rankbench loads a JSON fixture of posts and viewer profiles, ranks a
// feed for each viewer, and optionally replays a simulated engagement
// loop so the exploration strategies have history to learn from. It is
// the tool used to compare strategies and tune exploration parameters
// against recorded candidate sets.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (RANK_ prefix, see internal/config)
//   - Config file (config.yaml, or RANK_CONFIG_PATH)
//   - Built-in defaults
//
// # Example Usage
//
//	rankbench -fixture testdata/posts.json -limit 20 -rounds 50
//
//	RANK_EXPLORATION_STRATEGY=ucb rankbench -fixture posts.json -rounds 200
//
// The -rounds flag drives the simulation loop: each round ranks every
// viewer's feed and feeds engagement events back into the engine, with
// per-author engagement odds taken from the fixture.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Limeload/x-recommendation-engine/internal/config"
	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/feed/exploration"
	"github.com/Limeload/x-recommendation-engine/internal/feed/reranking"
	"github.com/Limeload/x-recommendation-engine/internal/logging"
)

func main() {
	var (
		fixturePath = flag.String("fixture", "", "path to the JSON fixture (required)")
		limit       = flag.Int("limit", 20, "feed size per viewer")
		rounds      = flag.Int("rounds", 0, "simulated engagement rounds (0 ranks once without feedback)")
		strategy    = flag.String("strategy", "", "override exploration strategy (epsilon_greedy, thompson_sampling, ucb)")
		showFeed    = flag.Bool("show-feed", true, "print the final ranked feed per viewer")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	if *fixturePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *strategy != "" {
		cfg.Engine.Exploration.Strategy = feed.Strategy(*strategy)
	}
	if err := cfg.Engine.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid engine configuration")
	}

	fixture, err := LoadFixture(*fixturePath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", *fixturePath).Msg("Failed to load fixture")
	}
	logging.Info().
		Int("posts", len(fixture.Posts)).
		Int("viewers", len(fixture.Viewers)).
		Str("strategy", string(cfg.Engine.Exploration.Strategy)).
		Msg("Fixture loaded")

	engine, err := feed.NewEngine(&cfg.Engine, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ranking engine")
	}
	engine.RegisterReranker(reranking.NewDiversity(cfg.Engine.Diversity))

	explorer, err := exploration.NewEngine(cfg.Engine.Exploration, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create exploration engine")
	}
	engine.SetExplorer(explorer)

	if len(fixture.Personas) > 0 {
		engine.SetPersonaResolver(feed.StaticPersonaResolver(fixture.Personas))
	}

	ctx := context.Background()

	if *rounds > 0 {
		sim := NewSimulator(engine, fixture, *limit)
		if err := sim.Run(ctx, *rounds); err != nil {
			logging.Fatal().Err(err).Msg("Simulation failed")
		}
		printSnapshot(explorer.Snapshot())
	}

	for i := range fixture.Viewers {
		resp, err := engine.Rank(ctx, &feed.Request{
			Candidates: fixture.Posts,
			Viewer:     fixture.Viewers[i],
			Limit:      *limit,
		})
		if err != nil {
			logging.Fatal().Err(err).Str("viewer_id", fixture.Viewers[i].ID).Msg("Ranking failed")
		}
		if *showFeed {
			printFeed(&fixture.Viewers[i], resp)
		}
	}
}

// printFeed writes one viewer's ranked feed to stdout.
func printFeed(viewer *feed.ViewerProfile, resp *feed.Response) {
	fmt.Printf("\n=== feed for %s (%d candidates, %d after filtering, %d exploration slots, %dms) ===\n",
		viewer.ID, resp.TotalCandidates, resp.Metadata.Filtered,
		resp.Metadata.ExplorationSlots, resp.Metadata.LatencyMS)

	for i := range resp.Posts {
		p := &resp.Posts[i]
		marker := " "
		if p.SelectedFor == feed.SlotExploration {
			marker = "*"
		}
		fmt.Printf("%3d%s %-12s %.4f  %s\n",
			p.Rank, marker, p.Post.AuthorID, p.Explanation.TotalScore,
			firstFactor(p.Explanation.KeyFactors))
	}
}

func firstFactor(factors []string) string {
	if len(factors) == 0 {
		return ""
	}
	return factors[0]
}

// printSnapshot writes the exploration statistics to stdout.
func printSnapshot(s exploration.Stats) {
	fmt.Printf("\n=== exploration snapshot ===\n")
	fmt.Printf("strategy:          %s\n", s.Strategy)
	fmt.Printf("exploration rate:  %.2f\n", s.ExplorationRate)
	fmt.Printf("authors tracked:   %d\n", s.AuthorsTracked)
	fmt.Printf("mean engagement:   %.4f\n", s.MeanEngagementRate)
	fmt.Printf("stddev engagement: %.4f\n", s.StdDevEngagementRate)
	fmt.Printf("history length:    %d\n", s.HistoryLength)
}

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

// Package feed implements a ranking engine for short-form post feeds.
//
// # Architecture
//
// The engine scores caller-materialized candidate posts against a viewer
// profile and returns an ordered, explained feed. A fixed pipeline runs
// on every call:
//
//   - Candidate Filtering: quality threshold, topic and author rules
//   - Component Scoring: recency, popularity, quality, topic relevance
//   - Weighted Ranking: normalized per-viewer weight vector
//   - Diversity Reranking: per-author and per-topic caps (subpackage)
//   - Exploration Injection: bandit-driven discovery slots (subpackage)
//   - Explanation: human-readable key factors per returned post
//
// # Design Principles
//
//   - Deterministic: Same inputs produce identical outputs (seeded RNG)
//   - Stateless Ranking: No per-viewer state survives a call; the only
//     mutable state is the explorer's engagement history
//   - Auditable: Every returned post carries its full score breakdown
//   - Observable: Metrics exposed for monitoring
//
// # Usage
//
//	cfg := feed.DefaultConfig()
//	engine, err := feed.NewEngine(cfg, logger)
//
//	engine.RegisterReranker(reranking.NewDiversity(cfg.Diversity))
//	engine.SetExplorer(explorer)
//
//	resp, err := engine.Rank(ctx, &feed.Request{
//	    Candidates: posts,
//	    Viewer:     viewer,
//	    Limit:      20,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Ranking calls take a shared
// lock on the runtime-tunable settings; mutators take an exclusive one.
package feed

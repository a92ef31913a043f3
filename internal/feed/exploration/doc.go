// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

// Package exploration implements the exploration-exploitation layer of
// the feed ranking pipeline.
//
// A fraction of each feed's slots is reserved for discovery content
// drawn from beyond the exploitation cutoff. Three bandit strategies
// decide which pool posts fill those slots:
//
//   - epsilon_greedy: uniform sampling from the pool
//   - thompson_sampling: Beta-posterior sampling over author engagement
//   - ucb: empirical rate plus an upper-confidence bonus
//
// Per-author engagement statistics accumulate through RecordEngagement
// and persist across strategy switches. Selection is deterministic for
// a given seed; the caller derives the seed from the request contents.
package exploration

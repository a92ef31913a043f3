// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

// Package reranking implements secondary-objective rerankers applied to
// an already-scored feed.
//
// Diversity enforces per-author and per-topic caps with a single greedy
// pass: posts breaching a cap are deferred behind the compliant block
// and carry a score penalty proportional to the number of breached
// constraints.
package reranking

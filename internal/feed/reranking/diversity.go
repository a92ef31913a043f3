// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package reranking

import (
	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

// Diversity caps repeats per author and per topic with a greedy,
// single-pass deferral algorithm.
//
// The sorted input is walked once: a post is accepted at its current
// relative order unless acceptance would push its author above
// MaxPerAuthor or any of its topics above MaxPerTopic. Violating posts
// are deferred and appended after the pass in their original relative
// order, each carrying a penalty proportional to the number of breached
// constraints. The penalty is subtracted from the displayed total score
// (clamped at zero) without triggering a re-sort.
type Diversity struct {
	cfg feed.DiversityConfig
}

// NewDiversity creates a diversity reranker.
func NewDiversity(cfg feed.DiversityConfig) *Diversity {
	if cfg.MaxPerAuthor < 1 {
		cfg.MaxPerAuthor = 3
	}
	if cfg.MaxPerTopic < 1 {
		cfg.MaxPerTopic = 5
	}
	if cfg.PenaltyPerViolation <= 0 {
		cfg.PenaltyPerViolation = 0.05
	}
	return &Diversity{cfg: cfg}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// deferred tracks a held-back post and its constraint violation count.
type deferred struct {
	post       feed.RankedPost
	violations int
}

// Rerank applies the deferral pass. Output length equals input length.
func (d *Diversity) Rerank(posts []feed.RankedPost) []feed.RankedPost {
	if len(posts) == 0 {
		return posts
	}

	authorCount := make(map[string]int)
	topicCount := make(map[string]int)

	accepted := make([]feed.RankedPost, 0, len(posts))
	held := make([]deferred, 0)

	for i := range posts {
		p := posts[i]

		violations := 0
		if authorCount[p.Post.AuthorID] >= d.cfg.MaxPerAuthor {
			violations++
		}
		for _, topic := range p.Post.Topics {
			if topicCount[topic] >= d.cfg.MaxPerTopic {
				violations++
			}
		}

		if violations > 0 {
			held = append(held, deferred{post: p, violations: violations})
			continue
		}

		accepted = append(accepted, p)
		authorCount[p.Post.AuthorID]++
		for _, topic := range p.Post.Topics {
			topicCount[topic]++
		}
	}

	for _, h := range held {
		p := h.post
		penalty := d.cfg.PenaltyPerViolation * float64(h.violations)
		p.Explanation.DiversityPenalty = penalty
		p.Explanation.TotalScore -= penalty
		if p.Explanation.TotalScore < 0 {
			p.Explanation.TotalScore = 0
		}
		accepted = append(accepted, p)
	}

	return accepted
}

// Ensure Diversity implements the interface.
var _ feed.Reranker = (*Diversity)(nil)

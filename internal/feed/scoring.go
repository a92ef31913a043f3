// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import (
	"math"
	"time"
)

// Popularity signal weights. Caps come from ScoringConfig; the weights sum
// to 1.0 so a post at every cap scores exactly 1.0.
const (
	likesWeight     = 0.4
	resharesWeight  = 0.35
	repliesWeight   = 0.15
	bookmarksWeight = 0.1
)

// Topic relevance mix: Jaccard over interests versus expertise coverage.
const (
	jaccardWeight   = 0.6
	expertiseWeight = 0.4
)

// ScoreCalculator computes the four component scores for one post/viewer
// pair. All methods are pure; a calculator is safe for concurrent use.
type ScoreCalculator struct {
	cfg ScoringConfig
}

// NewScoreCalculator creates a calculator with the given parameters.
func NewScoreCalculator(cfg ScoringConfig) *ScoreCalculator {
	if cfg.RecencyHalfLife <= 0 {
		cfg.RecencyHalfLife = 24 * time.Hour
	}
	return &ScoreCalculator{cfg: cfg}
}

// Score computes all four component scores at the given reference time.
func (s *ScoreCalculator) Score(post *Post, viewer *ViewerProfile, now time.Time) ComponentScores {
	return ComponentScores{
		Recency:        s.RecencyScore(post, now),
		Popularity:     s.PopularityScore(post),
		Quality:        s.QualityScore(post),
		TopicRelevance: s.TopicRelevanceScore(post, viewer),
	}
}

// RecencyScore scores post freshness with exponential decay:
// exp(-ln(2)/H * age_hours) for half-life H. Posts with a future
// timestamp score 1.0.
func (s *ScoreCalculator) RecencyScore(post *Post, now time.Time) float64 {
	age := now.Sub(post.CreatedAt)
	if age < 0 {
		return 1.0
	}

	ageHours := age.Hours()
	halfLifeHours := s.cfg.RecencyHalfLife.Hours()
	decay := math.Ln2 / halfLifeHours

	return clamp01(math.Exp(-decay * ageHours))
}

// PopularityScore scores engagement as a weighted sum of per-signal
// min(1, count/cap). Caps keep one viral signal from saturating the rest.
func (s *ScoreCalculator) PopularityScore(post *Post) float64 {
	score := likesWeight*cappedRatio(post.Likes, s.cfg.LikesCap) +
		resharesWeight*cappedRatio(post.Reshares, s.cfg.ResharesCap) +
		repliesWeight*cappedRatio(post.Replies, s.cfg.RepliesCap) +
		bookmarksWeight*cappedRatio(post.Bookmarks, s.cfg.BookmarksCap)

	return clamp01(score)
}

// QualityScore passes through the externally supplied quality signal,
// clamped to [0, 1].
func (s *ScoreCalculator) QualityScore(post *Post) float64 {
	return clamp01(post.QualityScore)
}

// TopicRelevanceScore scores the match between post topics and the
// viewer's interests and expertise:
// 0.6 * jaccard(interests, topics) + 0.4 * expertise coverage.
func (s *ScoreCalculator) TopicRelevanceScore(post *Post, viewer *ViewerProfile) float64 {
	jaccard := jaccardSimilarity(viewer.Interests, post.Topics)
	expertise := expertiseMatch(viewer.Expertise, post.Topics)

	return clamp01(jaccardWeight*jaccard + expertiseWeight*expertise)
}

// cappedRatio returns min(1, count/cap), treating non-positive caps and
// negative counts as zero signal.
func cappedRatio(count, cap int) float64 {
	if cap <= 0 || count <= 0 {
		return 0
	}
	r := float64(count) / float64(cap)
	if r > 1 {
		return 1
	}
	return r
}

// jaccardSimilarity computes the intersection-over-union ratio over two topic sets.
// Returns 0 when both sets are empty.
func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// expertiseMatch returns the fraction of post topics present in the
// viewer's expertise set. Returns 0 if the post has no topics.
func expertiseMatch(expertise, topics []string) float64 {
	if len(topics) == 0 {
		return 0
	}

	expertiseSet := make(map[string]struct{}, len(expertise))
	for _, t := range expertise {
		expertiseSet[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(topics))
	matched := 0
	for _, t := range topics {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := expertiseSet[t]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(seen))
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

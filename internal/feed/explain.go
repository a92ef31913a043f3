// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import (
	"fmt"
	"strings"
)

// ExplanationBuilder derives human-readable key factors and a persona
// match label from component scores. It is a read-only annotator: total
// scores are never altered here.
type ExplanationBuilder struct {
	cfg      ExplanationConfig
	resolver PersonaResolver
}

// NewExplanationBuilder creates a builder. resolver may be nil, in which
// case persona matching is disabled.
func NewExplanationBuilder(cfg ExplanationConfig, resolver PersonaResolver) *ExplanationBuilder {
	if cfg.PersonaThreshold <= 0 {
		cfg.PersonaThreshold = 0.6
	}
	return &ExplanationBuilder{cfg: cfg, resolver: resolver}
}

// Build fills KeyFactors and PersonaMatch on the explanation. Rules are
// evaluated in fixed order so output is deterministic.
func (b *ExplanationBuilder) Build(post *Post, viewer *ViewerProfile, exp *RankingExplanation) {
	factors := make([]string, 0, 6)
	scores := exp.Scores

	switch {
	case scores.Recency > 0.8 && scores.Popularity > 0.5:
		factors = append(factors, "recent high-engagement content")
	case scores.Recency > 0.8:
		factors = append(factors, "very recent content")
	case scores.Recency > 0.5:
		factors = append(factors, "recent content")
	}

	if scores.Popularity > 0.8 {
		factors = append(factors, "highly engaging content")
	} else if scores.Popularity > 0.5 {
		factors = append(factors, "well-engaged content")
	}

	if scores.Quality > 0.8 {
		factors = append(factors, "strong quality signal")
	} else if scores.Quality > 0.6 {
		factors = append(factors, "good content quality")
	}

	if scores.TopicRelevance > 0.8 {
		factors = append(factors, fmt.Sprintf("strong match to your interests: %s", strings.Join(post.Topics, ", ")))
	} else if scores.TopicRelevance > 0.5 {
		factors = append(factors, fmt.Sprintf("relevant to your interests: %s", strings.Join(post.Topics, ", ")))
	}

	if followsAuthor(viewer, post.AuthorID) {
		factors = append(factors, "from an account you follow")
	}

	if persona, ok := b.personaMatch(post, viewer, scores.TopicRelevance); ok {
		exp.PersonaMatch = persona
		factors = append(factors, fmt.Sprintf("high affinity to %q persona", persona))
	}

	if len(factors) == 0 {
		factors = append(factors, "balanced content recommendation")
	}

	exp.KeyFactors = factors
}

// personaMatch resolves the dominant matching topic against the persona
// taxonomy. The dominant topic is the first post topic, in post order,
// that also appears in the viewer's interests.
func (b *ExplanationBuilder) personaMatch(post *Post, viewer *ViewerProfile, relevance float64) (string, bool) {
	if b.resolver == nil || relevance <= b.cfg.PersonaThreshold {
		return "", false
	}

	interests := toSet(viewer.Interests)
	for _, topic := range post.Topics {
		if _, ok := interests[topic]; !ok {
			continue
		}
		if label, ok := b.resolver.ResolvePersona(topic); ok {
			return label, true
		}
	}

	return "", false
}

func followsAuthor(viewer *ViewerProfile, authorID string) bool {
	for _, id := range viewer.Following {
		if id == authorID {
			return true
		}
	}
	return false
}

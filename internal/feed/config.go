// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import (
	"fmt"
	"math"
	"time"
)

// Strategy tags the exploration strategy. The set is closed: exactly
// epsilon-greedy, Thompson Sampling and UCB1 are recognized.
type Strategy string

const (
	// StrategyEpsilonGreedy samples the exploration pool uniformly.
	StrategyEpsilonGreedy Strategy = "epsilon_greedy"
	// StrategyThompson scores the pool by Beta-posterior sampling.
	StrategyThompson Strategy = "thompson_sampling"
	// StrategyUCB1 scores the pool by empirical rate plus confidence bonus.
	StrategyUCB1 Strategy = "ucb"
)

// Valid reports whether the tag names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyEpsilonGreedy, StrategyThompson, StrategyUCB1:
		return true
	default:
		return false
	}
}

// Injection policies for exploration slot placement.
const (
	// InjectInterleave spreads exploration picks at evenly spaced slots.
	InjectInterleave = "interleave"
	// InjectAppend places exploration picks after the exploitation block.
	InjectAppend = "append"
)

// Weights is a viewer's ranking weight vector. The four primary weights
// are normalized to sum to 1.0 before use; Diversity is a penalty
// coefficient and stays as given.
type Weights struct {
	Recency        float64 `json:"recency" koanf:"recency"`
	Popularity     float64 `json:"popularity" koanf:"popularity"`
	Quality        float64 `json:"quality" koanf:"quality"`
	TopicRelevance float64 `json:"topic_relevance" koanf:"topic_relevance"`
	Diversity      float64 `json:"diversity" koanf:"diversity"`
}

// weightTolerance is the allowed drift from 1.0 before renormalizing.
const weightTolerance = 0.01

// Normalize returns a copy with the four primary weights rescaled to sum
// to 1.0. Weights already within tolerance are returned unchanged.
// Returns ErrInvalidWeights if all primary weights are zero.
func (w Weights) Normalize() (Weights, error) {
	sum := w.Recency + w.Popularity + w.Quality + w.TopicRelevance
	if sum <= 0 {
		return Weights{}, fmt.Errorf("%w: primary weights sum to %f", ErrInvalidWeights, sum)
	}

	if math.Abs(sum-1.0) <= weightTolerance {
		return w, nil
	}

	return Weights{
		Recency:        w.Recency / sum,
		Popularity:     w.Popularity / sum,
		Quality:        w.Quality / sum,
		TopicRelevance: w.TopicRelevance / sum,
		Diversity:      w.Diversity,
	}, nil
}

// DefaultWeights returns the default viewer weight vector.
func DefaultWeights() Weights {
	return Weights{
		Recency:        0.2,
		Popularity:     0.25,
		Quality:        0.2,
		TopicRelevance: 0.25,
		Diversity:      0.1,
	}
}

// ScoringConfig contains parameters for the component score calculators.
type ScoringConfig struct {
	// RecencyHalfLife is the age at which the recency score halves.
	// Default: 24h.
	RecencyHalfLife time.Duration `json:"recency_half_life" koanf:"recency_half_life"`

	// Per-signal caps for popularity normalization. Counts at or above
	// the cap contribute a full 1.0 for that signal.
	LikesCap     int `json:"likes_cap" koanf:"likes_cap"`
	ResharesCap  int `json:"reshares_cap" koanf:"reshares_cap"`
	RepliesCap   int `json:"replies_cap" koanf:"replies_cap"`
	BookmarksCap int `json:"bookmarks_cap" koanf:"bookmarks_cap"`
}

// FilterConfig contains default candidate filtering thresholds.
type FilterConfig struct {
	// MinQuality is the default minimum quality score.
	// Default: 0.0 (no filtering).
	MinQuality float64 `json:"min_quality" koanf:"min_quality"`

	// RequireTopics drops posts with an empty topic set by default.
	RequireTopics bool `json:"require_topics" koanf:"require_topics"`
}

// DiversityConfig contains parameters for the diversity reranker.
type DiversityConfig struct {
	// MaxPerAuthor caps accepted posts per author. Default: 3.
	MaxPerAuthor int `json:"max_per_author" koanf:"max_per_author"`

	// MaxPerTopic caps accepted posts per topic. Default: 5.
	MaxPerTopic int `json:"max_per_topic" koanf:"max_per_topic"`

	// PenaltyPerViolation is the score penalty per breached constraint
	// for deferred posts. Default: 0.05.
	PenaltyPerViolation float64 `json:"penalty_per_violation" koanf:"penalty_per_violation"`
}

// ExplorationConfig contains parameters for the exploration engine.
type ExplorationConfig struct {
	// Strategy selects the exploration strategy.
	Strategy Strategy `json:"strategy" koanf:"strategy"`

	// Rate is the fraction of output slots reserved for exploration,
	// in [0, 1]. Default: 0.10.
	Rate float64 `json:"rate" koanf:"rate"`

	// Epsilon is reserved for epsilon-greedy variants that explore a
	// random subset of calls rather than slots. Default: 0.1.
	Epsilon float64 `json:"epsilon" koanf:"epsilon"`

	// UCBC is the UCB1 exploration constant. Larger values bias toward
	// exploration. Default: 1.25.
	UCBC float64 `json:"ucb_c" koanf:"ucb_c"`

	// UCBBlendWeight is the weight on the UCB score when blending with
	// the original ranking score; 1.0 disables blending. Default: 0.7.
	UCBBlendWeight float64 `json:"ucb_blend_weight" koanf:"ucb_blend_weight"`

	// InjectionPolicy controls slot placement: "interleave" or "append".
	// Default: interleave.
	InjectionPolicy string `json:"injection_policy" koanf:"injection_policy"`

	// Seed is the base random seed for deterministic behavior. Per-call
	// sources are derived from it together with the request contents.
	// If zero, a fixed default seed is used.
	Seed uint64 `json:"seed" koanf:"seed"`
}

// Validate checks the exploration parameters.
func (c *ExplorationConfig) Validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if c.Rate < 0 || c.Rate > 1 {
		return fmt.Errorf("%w: rate must be in [0, 1], got %f", ErrInvalidConfig, c.Rate)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("%w: epsilon must be in [0, 1], got %f", ErrInvalidConfig, c.Epsilon)
	}
	if c.UCBC < 0 {
		return fmt.Errorf("%w: ucb_c must be non-negative, got %f", ErrInvalidConfig, c.UCBC)
	}
	if c.UCBBlendWeight < 0 || c.UCBBlendWeight > 1 {
		return fmt.Errorf("%w: ucb_blend_weight must be in [0, 1], got %f", ErrInvalidConfig, c.UCBBlendWeight)
	}
	switch c.InjectionPolicy {
	case InjectInterleave, InjectAppend:
	default:
		return fmt.Errorf("%w: unknown injection policy %q", ErrInvalidConfig, c.InjectionPolicy)
	}
	return nil
}

// ExplanationConfig contains parameters for the explanation builder.
type ExplanationConfig struct {
	// PersonaThreshold is the minimum topic relevance for a persona
	// match. Default: 0.6.
	PersonaThreshold float64 `json:"persona_threshold" koanf:"persona_threshold"`
}

// Config contains all configuration for the ranking engine.
type Config struct {
	// Weights are the default weights used when a viewer supplies none.
	Weights Weights `json:"weights" koanf:"weights"`

	// Scoring contains component score parameters.
	Scoring ScoringConfig `json:"scoring" koanf:"scoring"`

	// Filter contains default candidate filtering thresholds.
	Filter FilterConfig `json:"filter" koanf:"filter"`

	// Diversity contains diversity reranking parameters.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// Exploration contains exploration-exploitation parameters.
	Exploration ExplorationConfig `json:"exploration" koanf:"exploration"`

	// Explanation contains explanation builder parameters.
	Explanation ExplanationConfig `json:"explanation" koanf:"explanation"`
}

// DefaultConfig returns a Config with production defaults matching the
// documented formulas.
func DefaultConfig() *Config {
	return &Config{
		Weights: DefaultWeights(),
		Scoring: ScoringConfig{
			RecencyHalfLife: 24 * time.Hour,
			LikesCap:        10000,
			ResharesCap:     2000,
			RepliesCap:      500,
			BookmarksCap:    1000,
		},
		Filter: FilterConfig{
			MinQuality:    0.0,
			RequireTopics: false,
		},
		Diversity: DiversityConfig{
			MaxPerAuthor:        3,
			MaxPerTopic:         5,
			PenaltyPerViolation: 0.05,
		},
		Exploration: ExplorationConfig{
			Strategy:        StrategyEpsilonGreedy,
			Rate:            0.10,
			Epsilon:         0.1,
			UCBC:            1.25,
			UCBBlendWeight:  0.7,
			InjectionPolicy: InjectInterleave,
			Seed:            42,
		},
		Explanation: ExplanationConfig{
			PersonaThreshold: 0.6,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Scoring.RecencyHalfLife <= 0 {
		return fmt.Errorf("%w: scoring.recency_half_life must be positive, got %v", ErrInvalidConfig, c.Scoring.RecencyHalfLife)
	}
	if c.Scoring.LikesCap < 1 || c.Scoring.ResharesCap < 1 || c.Scoring.RepliesCap < 1 || c.Scoring.BookmarksCap < 1 {
		return fmt.Errorf("%w: scoring caps must be positive", ErrInvalidConfig)
	}
	if c.Filter.MinQuality < 0 || c.Filter.MinQuality > 1 {
		return fmt.Errorf("%w: filter.min_quality must be in [0, 1], got %f", ErrInvalidConfig, c.Filter.MinQuality)
	}
	if c.Diversity.MaxPerAuthor < 1 {
		return fmt.Errorf("%w: diversity.max_per_author must be positive, got %d", ErrInvalidConfig, c.Diversity.MaxPerAuthor)
	}
	if c.Diversity.MaxPerTopic < 1 {
		return fmt.Errorf("%w: diversity.max_per_topic must be positive, got %d", ErrInvalidConfig, c.Diversity.MaxPerTopic)
	}
	if c.Diversity.PenaltyPerViolation < 0 {
		return fmt.Errorf("%w: diversity.penalty_per_violation must be non-negative, got %f", ErrInvalidConfig, c.Diversity.PenaltyPerViolation)
	}
	if err := c.Exploration.Validate(); err != nil {
		return err
	}
	if c.Explanation.PersonaThreshold < 0 || c.Explanation.PersonaThreshold > 1 {
		return fmt.Errorf("%w: explanation.persona_threshold must be in [0, 1], got %f", ErrInvalidConfig, c.Explanation.PersonaThreshold)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	return &Config{
		Weights:     c.Weights,
		Scoring:     c.Scoring,
		Filter:      c.Filter,
		Diversity:   c.Diversity,
		Exploration: c.Exploration,
		Explanation: c.Explanation,
	}
}

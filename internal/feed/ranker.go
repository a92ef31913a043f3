// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Limeload/x-recommendation-engine/internal/metrics"
)

// Engine is the feed ranking pipeline. A single Engine serves all
// viewers; per-viewer state travels in the Request and each call is an
// independent, repeatable computation over its inputs.
//
// The pipeline stages run in a fixed order: filter, score, sort,
// rerank, inject exploration, explain. Rerankers run in registration
// order. The explorer, when set, owns the final slot layout.
type Engine struct {
	mu  sync.RWMutex // guards cfg.Weights and explorer
	cfg *Config

	calc    *ScoreCalculator
	filter  *CandidateFilter
	explain *ExplanationBuilder

	rerankers []Reranker
	explorer  Explorer

	logger zerolog.Logger

	// nowFn supplies the clock; replaced in tests.
	nowFn func() time.Time
}

// NewEngine creates a ranking engine. A nil cfg selects DefaultConfig.
// The configuration is copied; later caller mutations do not leak in.
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	return &Engine{
		cfg:     cfg,
		calc:    NewScoreCalculator(cfg.Scoring),
		filter:  NewCandidateFilter(cfg.Filter),
		explain: NewExplanationBuilder(cfg.Explanation, nil),
		logger:  logger.With().Str("component", "ranker").Logger(),
		nowFn:   time.Now,
	}, nil
}

// RegisterReranker appends a reranker to the pipeline. Rerankers run in
// registration order after scoring and sorting.
func (e *Engine) RegisterReranker(r Reranker) {
	e.rerankers = append(e.rerankers, r)
}

// SetExplorer installs the exploration layer. A nil explorer disables
// exploration; the feed is then a pure exploitation truncation.
func (e *Engine) SetExplorer(x Explorer) {
	e.mu.Lock()
	e.explorer = x
	e.mu.Unlock()
}

// SetPersonaResolver installs the persona taxonomy used by explanations.
func (e *Engine) SetPersonaResolver(r PersonaResolver) {
	e.explain = NewExplanationBuilder(e.cfg.Explanation, r)
}

// SetWeights replaces the engine's default weight vector. The vector is
// normalized before storage so explanations echo effective weights.
func (e *Engine) SetWeights(w Weights) error {
	norm, err := w.Normalize()
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.cfg.Weights = norm
	e.mu.Unlock()
	return nil
}

// Rank produces a ranked, explained feed for one viewer.
//
// A zero-value viewer weight vector falls back to the engine defaults.
// Limit zero yields an empty feed with populated metadata; a negative
// limit is rejected with ErrInvalidInput.
func (e *Engine) Rank(ctx context.Context, req *Request) (*Response, error) {
	start := e.nowFn()

	if req == nil {
		metrics.RankingErrors.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: nil request", ErrInvalidInput)
	}
	if req.Limit < 0 {
		metrics.RankingErrors.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidInput, req.Limit)
	}
	if req.Viewer.ID == "" {
		metrics.RankingErrors.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: empty viewer id", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		metrics.RankingErrors.WithLabelValues("canceled").Inc()
		return nil, err
	}

	weights, err := e.effectiveWeights(req.Viewer.Weights)
	if err != nil {
		metrics.RankingErrors.WithLabelValues("invalid_weights").Inc()
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	now := e.nowFn()

	filtered := e.filter.Apply(req.Candidates, req.Filters)
	metrics.CandidatesFiltered.Add(float64(len(req.Candidates) - len(filtered)))

	ranked := e.scoreAndSort(filtered, &req.Viewer, weights, now)

	for _, r := range e.rerankers {
		ranked = r.Rerank(ranked)
	}

	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	var final []RankedPost
	strategyName := ""
	if explorer != nil && req.Limit > 0 {
		seed := deriveSeed(e.cfg.Exploration.Seed, &req.Viewer, req.Candidates)
		final = explorer.Inject(ranked, req.Limit, seed)
		strategyName = explorer.Name()
	} else {
		final = truncate(ranked, req.Limit)
	}

	explorationSlots := 0
	for i := range final {
		final[i].Rank = i + 1
		e.explain.Build(&final[i].Post, &req.Viewer, &final[i].Explanation)
		if final[i].SelectedFor == SlotExploration {
			explorationSlots++
		}
	}

	elapsed := e.nowFn().Sub(start)
	metrics.RankingRequests.Inc()
	metrics.RankingDuration.Observe(elapsed.Seconds())

	e.logger.Debug().
		Str("request_id", requestID).
		Str("viewer_id", req.Viewer.ID).
		Int("candidates", len(req.Candidates)).
		Int("filtered", len(filtered)).
		Int("returned", len(final)).
		Int("exploration_slots", explorationSlots).
		Dur("latency", elapsed).
		Msg("feed ranked")

	return &Response{
		Posts:           final,
		TotalCandidates: len(req.Candidates),
		Metadata: ResponseMetadata{
			RequestID:        requestID,
			ViewerID:         req.Viewer.ID,
			Filtered:         len(filtered),
			ExplorationSlots: explorationSlots,
			Strategy:         strategyName,
			LatencyMS:        elapsed.Milliseconds(),
			Timestamp:        now,
		},
	}, nil
}

// effectiveWeights resolves the weight vector for one call. A zero-value
// viewer vector means "use engine defaults"; anything else is
// normalized, which rejects all-zero primary weights.
func (e *Engine) effectiveWeights(w Weights) (Weights, error) {
	if w == (Weights{}) {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.cfg.Weights.Normalize()
	}
	return w.Normalize()
}

// scoreAndSort computes component and total scores and orders the posts
// by descending total score, ties broken by ascending post ID.
func (e *Engine) scoreAndSort(posts []Post, viewer *ViewerProfile, weights Weights, now time.Time) []RankedPost {
	ranked := make([]RankedPost, len(posts))
	for i := range posts {
		scores := e.calc.Score(&posts[i], viewer, now)
		total := weights.Recency*scores.Recency +
			weights.Popularity*scores.Popularity +
			weights.Quality*scores.Quality +
			weights.TopicRelevance*scores.TopicRelevance

		ranked[i] = RankedPost{
			Post: posts[i],
			Explanation: RankingExplanation{
				PostID:     posts[i].ID,
				TotalScore: clamp01(total),
				Scores:     scores,
				Weights:    weights,
			},
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Explanation.TotalScore, ranked[j].Explanation.TotalScore
		if si != sj {
			return si > sj
		}
		return ranked[i].Post.ID < ranked[j].Post.ID
	})

	return ranked
}

// truncate takes the top limit entries and labels them exploitation.
func truncate(ranked []RankedPost, limit int) []RankedPost {
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]RankedPost, limit)
	copy(out, ranked[:limit])
	for i := range out {
		out[i].SelectedFor = SlotExploitation
	}
	return out
}

// deriveSeed folds the base seed, viewer ID and candidate IDs into a
// per-call seed. Identical requests map to identical seeds, so repeated
// ranking of the same inputs is reproducible.
func deriveSeed(base uint64, viewer *ViewerProfile, candidates []Post) uint64 {
	h := fnv.New64a()

	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(base >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(viewer.ID))
	for i := range candidates {
		h.Write([]byte(candidates[i].ID))
	}
	return h.Sum64()
}

// ExplorationStats is a read-only observability snapshot of the
// exploration layer.
type ExplorationStats struct {
	// AuthorsTracked is the number of authors with recorded stats.
	AuthorsTracked int `json:"authors_tracked"`

	// MeanEngagementRate is the mean empirical rate across authors.
	MeanEngagementRate float64 `json:"mean_engagement_rate"`

	// StdDevEngagementRate is the spread of empirical rates. Zero with
	// fewer than two tracked authors.
	StdDevEngagementRate float64 `json:"stddev_engagement_rate"`

	// Strategy is the active strategy tag.
	Strategy string `json:"current_strategy"`

	// ExplorationRate is the active slot fraction.
	ExplorationRate float64 `json:"exploration_rate"`

	// HistoryLength is the number of retained feedback events.
	HistoryLength int `json:"history_length"`
}

// strategySwitcher is the optional runtime-tuning surface of an
// explorer. The exploration engine implements it.
type strategySwitcher interface {
	SetStrategy(cfg ExplorationConfig) error
	SetExplorationRate(rate float64) error
}

// statsReader explorers expose an observability snapshot.
type statsReader interface {
	Snapshot() ExplorationStats
}

// resettable explorers can discard accumulated learning state.
type resettable interface {
	Reset()
}

// RecordEngagement forwards viewer feedback to the explorer. Without an
// explorer the event is dropped, not failed; the ranking surface works
// identically with exploration disabled.
func (e *Engine) RecordEngagement(postID, authorID string, typ EngagementType) error {
	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	if explorer == nil {
		return nil
	}
	return explorer.RecordEngagement(postID, authorID, typ)
}

// SetStrategy reconfigures the explorer's strategy at runtime.
func (e *Engine) SetStrategy(cfg ExplorationConfig) error {
	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	s, ok := explorer.(strategySwitcher)
	if !ok {
		return fmt.Errorf("%w: exploration is not enabled", ErrInvalidConfig)
	}
	if err := s.SetStrategy(cfg); err != nil {
		return err
	}

	e.mu.Lock()
	e.cfg.Exploration = cfg
	e.mu.Unlock()
	return nil
}

// SetExplorationRate adjusts the exploration slot fraction at runtime.
func (e *Engine) SetExplorationRate(rate float64) error {
	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	s, ok := explorer.(strategySwitcher)
	if !ok {
		return fmt.Errorf("%w: exploration is not enabled", ErrInvalidConfig)
	}
	if err := s.SetExplorationRate(rate); err != nil {
		return err
	}

	e.mu.Lock()
	e.cfg.Exploration.Rate = rate
	e.mu.Unlock()
	return nil
}

// ExplorationStats returns the explorer's observability snapshot.
func (e *Engine) ExplorationStats() (ExplorationStats, error) {
	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	s, ok := explorer.(statsReader)
	if !ok {
		return ExplorationStats{}, fmt.Errorf("%w: exploration is not enabled", ErrInvalidConfig)
	}
	return s.Snapshot(), nil
}

// ResetExploration clears the explorer's accumulated statistics, when
// the explorer supports it.
func (e *Engine) ResetExploration() {
	e.mu.RLock()
	explorer := e.explorer
	e.mu.RUnlock()

	if r, ok := explorer.(resettable); ok {
		r.Reset()
	}
}

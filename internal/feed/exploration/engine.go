// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/metrics"
)

// historyCap bounds the in-memory feedback event log.
const historyCap = 1024

// Event is one recorded engagement feedback event.
type Event struct {
	PostID    string              `json:"post_id"`
	AuthorID  string              `json:"author_id"`
	Type      feed.EngagementType `json:"type"`
	Timestamp time.Time           `json:"timestamp"`
}

// Stats is the engine's observability snapshot, shared with the
// ranking layer.
type Stats = feed.ExplorationStats

// Engine is the exploration-exploitation layer. It owns the per-author
// engagement statistics, injects discovery content into ranked feeds and
// learns from engagement feedback.
//
// Ranking-path calls (Inject) only read the statistics; feedback-path
// calls (RecordEngagement) only write them. The two paths may run
// concurrently. Strategy and rate are runtime-swappable; switching
// strategy never resets accumulated history.
type Engine struct {
	mu    sync.RWMutex // guards cfg and strat
	cfg   feed.ExplorationConfig
	strat strategy

	stats  *statsStore
	logger zerolog.Logger

	histMu  sync.Mutex
	history []Event
}

// NewEngine creates an exploration engine. An unknown strategy tag or an
// out-of-range parameter fails here, not during a ranking call.
func NewEngine(cfg feed.ExplorationConfig, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strat, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		strat:  strat,
		stats:  newStatsStore(),
		logger: logger.With().Str("component", "exploration").Logger(),
	}, nil
}

// Name returns the active strategy tag.
func (e *Engine) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strat.Name()
}

// Inject reserves a fraction of the final feed for exploration and fills
// those slots from the tail pool under the active strategy. The input is
// the full diversity-reranked list; the output holds at most limit
// entries. An empty tail pool yields zero exploration slots. seed
// derives the per-call random source, so identical inputs produce
// identical output.
func (e *Engine) Inject(ranked []feed.RankedPost, limit int, seed uint64) []feed.RankedPost {
	e.mu.RLock()
	cfg := e.cfg
	strat := e.strat
	e.mu.RUnlock()

	if limit <= 0 || len(ranked) == 0 {
		return nil
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	numExplore := 0
	if cfg.Rate > 0 && len(ranked) > limit {
		numExplore = int(float64(limit) * cfg.Rate)
		if numExplore < 1 {
			numExplore = 1
		}
		if numExplore > limit {
			numExplore = limit
		}
	}

	exploit := markSlots(ranked[:limit-numExplore], feed.SlotExploitation)
	if numExplore == 0 {
		// Returning every available post; nothing left to explore.
		return exploit
	}

	pool := ranked[limit-numExplore:]
	rng := rand.New(rand.NewSource(seed))
	picks := markSlots(strat.Select(pool, numExplore, e.stats, rng), feed.SlotExploration)

	if len(picks) < numExplore {
		// Pool smaller than requested; backfill with the best
		// unselected pool posts in their original order.
		exploit = append(exploit, markSlots(backfill(pool, picks, numExplore-len(picks)), feed.SlotExploitation)...)
	}

	metrics.ExplorationSlots.WithLabelValues(strat.Name()).Add(float64(len(picks)))

	e.logger.Debug().
		Str("strategy", strat.Name()).
		Int("limit", limit).
		Int("exploration_slots", len(picks)).
		Int("pool", len(pool)).
		Msg("exploration injection")

	return injectPicks(exploit, picks, cfg.InjectionPolicy)
}

// markSlots labels each entry with its slot kind.
func markSlots(posts []feed.RankedPost, slot string) []feed.RankedPost {
	out := make([]feed.RankedPost, len(posts))
	copy(out, posts)
	for i := range out {
		out[i].SelectedFor = slot
	}
	return out
}

// backfill returns up to n pool posts not already picked, preserving
// pool order.
func backfill(pool, picks []feed.RankedPost, n int) []feed.RankedPost {
	picked := make(map[string]struct{}, len(picks))
	for i := range picks {
		picked[picks[i].Post.ID] = struct{}{}
	}

	out := make([]feed.RankedPost, 0, n)
	for i := range pool {
		if len(out) == n {
			break
		}
		if _, ok := picked[pool[i].Post.ID]; ok {
			continue
		}
		out = append(out, pool[i])
	}
	return out
}

// injectPicks merges exploration picks into the exploitation block under
// the configured policy. Interleave spreads picks at the midpoints of
// equal-width segments; append places them at the end. Both are
// deterministic.
func injectPicks(exploit, picks []feed.RankedPost, policy string) []feed.RankedPost {
	n := len(exploit) + len(picks)
	if len(picks) == 0 {
		return exploit
	}

	if policy == feed.InjectAppend {
		return append(exploit, picks...)
	}

	positions := make(map[int]int, len(picks)) // slot index -> pick index
	for k := range picks {
		pos := ((2*k + 1) * n) / (2 * len(picks))
		// Collisions shift right; n >= len(picks) guarantees room.
		for {
			if _, taken := positions[pos]; !taken {
				break
			}
			pos = (pos + 1) % n
		}
		positions[pos] = k
	}

	out := make([]feed.RankedPost, 0, n)
	next := 0
	for slot := 0; slot < n; slot++ {
		if k, ok := positions[slot]; ok {
			out = append(out, picks[k])
			continue
		}
		out = append(out, exploit[next])
		next++
	}
	return out
}

// RecordEngagement records one feedback event for an author's post.
// Type none registers an exposure without a success; positive types
// register both. Author stats are created lazily, so there is no
// unknown-author failure. Events are not deduplicated; at-most-once
// delivery is the caller's burden.
func (e *Engine) RecordEngagement(postID, authorID string, typ feed.EngagementType) error {
	switch typ {
	case feed.EngagementNone, feed.EngagementLike, feed.EngagementReshare,
		feed.EngagementReply, feed.EngagementBookmark:
	default:
		return fmt.Errorf("%w: %d", feed.ErrInvalidEngagementType, typ)
	}

	e.stats.Record(authorID, typ.Positive())

	metrics.EngagementEvents.WithLabelValues(typ.String()).Inc()
	metrics.AuthorsTracked.Set(float64(e.stats.Len()))

	e.histMu.Lock()
	e.history = append(e.history, Event{
		PostID:    postID,
		AuthorID:  authorID,
		Type:      typ,
		Timestamp: time.Now(),
	})
	if len(e.history) > historyCap {
		e.history = e.history[len(e.history)-historyCap:]
	}
	e.histMu.Unlock()

	return nil
}

// SetStrategy swaps the strategy and its parameters at runtime. The
// accumulated author history is kept; history is orthogonal to the
// formula consuming it.
func (e *Engine) SetStrategy(cfg feed.ExplorationConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	strat, err := newStrategy(cfg)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.cfg = cfg
	e.strat = strat
	e.mu.Unlock()

	e.logger.Info().Str("strategy", strat.Name()).Msg("exploration strategy updated")
	return nil
}

// SetExplorationRate adjusts the exploration slot fraction at runtime.
func (e *Engine) SetExplorationRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("%w: rate must be in [0, 1], got %f", feed.ErrInvalidConfig, rate)
	}

	e.mu.Lock()
	e.cfg.Rate = rate
	e.mu.Unlock()

	e.logger.Info().Float64("rate", rate).Msg("exploration rate updated")
	return nil
}

// Snapshot returns the observability snapshot.
func (e *Engine) Snapshot() Stats {
	e.mu.RLock()
	cfg := e.cfg
	name := e.strat.Name()
	e.mu.RUnlock()

	e.histMu.Lock()
	histLen := len(e.history)
	e.histMu.Unlock()

	rates := e.stats.Rates()

	s := Stats{
		AuthorsTracked:  len(rates),
		Strategy:        name,
		ExplorationRate: cfg.Rate,
		HistoryLength:   histLen,
	}
	if len(rates) > 0 {
		s.MeanEngagementRate = stat.Mean(rates, nil)
	}
	if len(rates) > 1 {
		s.StdDevEngagementRate = stat.StdDev(rates, nil)
	}
	return s
}

// AuthorSnapshot returns a copy of one author's stats.
func (e *Engine) AuthorSnapshot(authorID string) (AuthorStat, bool) {
	return e.stats.Get(authorID)
}

// History returns a copy of the retained feedback events, oldest first.
func (e *Engine) History() []Event {
	e.histMu.Lock()
	defer e.histMu.Unlock()

	out := make([]Event, len(e.history))
	copy(out, e.history)
	return out
}

// Reset clears all accumulated statistics and history.
func (e *Engine) Reset() {
	e.stats.Reset()

	e.histMu.Lock()
	e.history = nil
	e.histMu.Unlock()

	metrics.AuthorsTracked.Set(0)
	e.logger.Info().Msg("exploration statistics reset")
}

// Ensure Engine satisfies the feed-facing contract.
var _ feed.Explorer = (*Engine)(nil)

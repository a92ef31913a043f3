// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package exploration

import (
	"hash/fnv"
	"sync"
)

// AuthorStat is the engagement record for one author. Stats accumulate
// only; there is no terminal or reset state within a session.
type AuthorStat struct {
	// AuthorID identifies the author.
	AuthorID string `json:"author_id"`

	// Successes counts positive engagement events.
	Successes uint64 `json:"successes"`

	// Trials counts recorded exposures.
	Trials uint64 `json:"trials"`
}

// Failures returns trials minus successes, floored at zero.
func (s AuthorStat) Failures() uint64 {
	if s.Successes >= s.Trials {
		return 0
	}
	return s.Trials - s.Successes
}

// EmpiricalRate returns successes/trials, or 0 with no trials.
func (s AuthorStat) EmpiricalRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Trials)
}

// statsShardCount is the number of lock shards in the store. Authors
// hash across shards so concurrent feedback for distinct authors rarely
// contends on one lock.
const statsShardCount = 16

// statsStore is a sharded concurrent map of AuthorStat. Locks are held
// only for the duration of a single increment or read, never across the
// scoring of multiple authors. Readers observe a consistent
// successes/trials pair per author; cross-author consistency is not
// provided and not needed.
type statsStore struct {
	shards [statsShardCount]statsShard
}

type statsShard struct {
	mu    sync.RWMutex
	stats map[string]AuthorStat
}

func newStatsStore() *statsStore {
	s := &statsStore{}
	for i := range s.shards {
		s.shards[i].stats = make(map[string]AuthorStat)
	}
	return s
}

func (s *statsStore) shard(authorID string) *statsShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(authorID))
	return &s.shards[h.Sum32()%statsShardCount]
}

// Record registers one exposure for the author, created lazily on first
// sighting, plus one success when the engagement was positive.
func (s *statsStore) Record(authorID string, positive bool) {
	shard := s.shard(authorID)
	shard.mu.Lock()
	stat := shard.stats[authorID]
	stat.AuthorID = authorID
	stat.Trials++
	if positive {
		stat.Successes++
	}
	shard.stats[authorID] = stat
	shard.mu.Unlock()
}

// Get returns a snapshot of the author's stats.
func (s *statsStore) Get(authorID string) (AuthorStat, bool) {
	shard := s.shard(authorID)
	shard.mu.RLock()
	stat, ok := shard.stats[authorID]
	shard.mu.RUnlock()
	return stat, ok
}

// Len returns the number of tracked authors.
func (s *statsStore) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].stats)
		s.shards[i].mu.RUnlock()
	}
	return n
}

// TotalTrials returns the sum of trials across all authors.
func (s *statsStore) TotalTrials() uint64 {
	var total uint64
	for i := range s.shards {
		s.shards[i].mu.RLock()
		for _, stat := range s.shards[i].stats {
			total += stat.Trials
		}
		s.shards[i].mu.RUnlock()
	}
	return total
}

// Rates returns the empirical engagement rate of every tracked author.
// Order is unspecified.
func (s *statsStore) Rates() []float64 {
	rates := make([]float64, 0, 64)
	for i := range s.shards {
		s.shards[i].mu.RLock()
		for _, stat := range s.shards[i].stats {
			rates = append(rates, stat.EmpiricalRate())
		}
		s.shards[i].mu.RUnlock()
	}
	return rates
}

// Reset clears all tracked authors.
func (s *statsStore) Reset() {
	for i := range s.shards {
		s.shards[i].mu.Lock()
		s.shards[i].stats = make(map[string]AuthorStat)
		s.shards[i].mu.Unlock()
	}
}

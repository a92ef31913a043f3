// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the ranking core:
// - Ranking call latency and throughput
// - Candidate filtering volume
// - Exploration slot allocation per strategy
// - Engagement feedback volume and tracked-author growth

var (
	// Ranking metrics
	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_ranking_duration_seconds",
			Help:    "Duration of ranking calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankingRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_ranking_requests_total",
			Help: "Total number of ranking calls",
		},
	)

	RankingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_ranking_errors_total",
			Help: "Total number of rejected ranking calls",
		},
		[]string{"reason"}, // "invalid_input", "invalid_weights"
	)

	CandidatesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_candidates_filtered_total",
			Help: "Total number of candidates dropped by the filter stage",
		},
	)

	// Exploration metrics
	ExplorationSlots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_exploration_slots_total",
			Help: "Total number of feed slots filled by exploration",
		},
		[]string{"strategy"},
	)

	EngagementEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_engagement_events_total",
			Help: "Total number of recorded engagement feedback events",
		},
		[]string{"type"},
	)

	AuthorsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_exploration_authors_tracked",
			Help: "Current number of authors with engagement statistics",
		},
	)
)

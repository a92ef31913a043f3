// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

/*
Package metrics provides Prometheus instrumentation for the ranking core.

All collectors are registered on the default registry via promauto and are
safe for concurrent use.

# Available Metrics

Ranking:
  - feed_ranking_duration_seconds: Ranking call latency (histogram)
  - feed_ranking_requests_total: Total ranking calls (counter)
  - feed_ranking_errors_total: Rejected ranking calls (counter)
    Labels: reason
  - feed_candidates_filtered_total: Candidates dropped before scoring (counter)

Exploration:
  - feed_exploration_slots_total: Feed slots filled by exploration (counter)
    Labels: strategy
  - feed_engagement_events_total: Recorded engagement feedback events (counter)
    Labels: type
  - feed_exploration_authors_tracked: Authors with engagement statistics (gauge)

# Usage

Callers increment the exported collectors directly:

	metrics.RankingRequests.Inc()
	metrics.ExplorationSlots.WithLabelValues("thompson_sampling").Add(2)
*/
package metrics

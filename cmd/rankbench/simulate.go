// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package main

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/logging"
)

// defaultEngagementOdds applies to authors without fixture odds.
const defaultEngagementOdds = 0.05

// simulatorSeed fixes the feedback roll sequence so repeated runs of the
// same fixture are comparable.
const simulatorSeed = 1

// positiveTypes are the engagement types rolled for a positive event.
var positiveTypes = []feed.EngagementType{
	feed.EngagementLike,
	feed.EngagementReshare,
	feed.EngagementReply,
	feed.EngagementBookmark,
}

// Simulator replays ranked feeds through a synthetic engagement model
// so exploration strategies accumulate author history.
type Simulator struct {
	engine  *feed.Engine
	fixture *Fixture
	limit   int
	rng     *rand.Rand
}

// NewSimulator creates a simulator over one fixture.
func NewSimulator(engine *feed.Engine, fixture *Fixture, limit int) *Simulator {
	return &Simulator{
		engine:  engine,
		fixture: fixture,
		limit:   limit,
		rng:     rand.New(rand.NewSource(simulatorSeed)),
	}
}

// Run executes rounds of rank-then-engage for every viewer. Every shown
// post produces a feedback event: a positive type when the author's
// engagement roll succeeds, an impression otherwise.
func (s *Simulator) Run(ctx context.Context, rounds int) error {
	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := range s.fixture.Viewers {
			resp, err := s.engine.Rank(ctx, &feed.Request{
				Candidates: s.fixture.Posts,
				Viewer:     s.fixture.Viewers[i],
				Limit:      s.limit,
			})
			if err != nil {
				return fmt.Errorf("round %d: rank for %s: %w", round, s.fixture.Viewers[i].ID, err)
			}

			for j := range resp.Posts {
				post := &resp.Posts[j].Post
				typ := feed.EngagementNone
				if s.rng.Float64() < s.odds(post.AuthorID) {
					typ = positiveTypes[s.rng.Intn(len(positiveTypes))]
				}
				if err := s.engine.RecordEngagement(post.ID, post.AuthorID, typ); err != nil {
					return fmt.Errorf("round %d: record engagement: %w", round, err)
				}
			}
		}
	}

	logging.Info().
		Int("rounds", rounds).
		Int("viewers", len(s.fixture.Viewers)).
		Msg("Simulation complete")
	return nil
}

// odds returns the fixture engagement odds for an author.
func (s *Simulator) odds(authorID string) float64 {
	if odds, ok := s.fixture.EngagementOdds[authorID]; ok {
		return odds
	}
	return defaultEngagementOdds
}

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/validation"
)

// Fixture is the on-disk input format for rankbench.
type Fixture struct {
	// Posts is the shared candidate pool ranked for every viewer.
	Posts []feed.Post `json:"posts" validate:"required,min=1,dive"`

	// Viewers are the profiles to rank feeds for.
	Viewers []feed.ViewerProfile `json:"viewers" validate:"required,min=1,dive"`

	// Personas maps topics to persona labels for explanations. Optional.
	Personas map[string]string `json:"personas,omitempty"`

	// EngagementOdds maps author IDs to the probability a shown post
	// from that author receives positive engagement during simulation.
	// Authors absent from the map default to 0.05.
	EngagementOdds map[string]float64 `json:"engagement_odds,omitempty"`
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	if err := validation.ValidateStruct(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	for author, odds := range f.EngagementOdds {
		if odds < 0 || odds > 1 {
			return nil, fmt.Errorf("invalid fixture: engagement odds for %s must be in [0, 1], got %f", author, odds)
		}
	}

	return &f, nil
}

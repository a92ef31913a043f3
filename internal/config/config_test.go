// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Engine.Scoring.RecencyHalfLife != 24*time.Hour {
		t.Errorf("RecencyHalfLife = %v, want 24h", cfg.Engine.Scoring.RecencyHalfLife)
	}
	if cfg.Engine.Exploration.Strategy != feed.StrategyEpsilonGreedy {
		t.Errorf("Strategy = %q, want epsilon_greedy", cfg.Engine.Exploration.Strategy)
	}
	if err := cfg.Engine.Validate(); err != nil {
		t.Errorf("default engine config invalid: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RANK_LOGGING_LEVEL", "debug")
	t.Setenv("RANK_EXPLORATION_STRATEGY", "ucb")
	t.Setenv("RANK_EXPLORATION_RATE", "0.25")
	t.Setenv("RANK_DIVERSITY_MAX_PER_AUTHOR", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Engine.Exploration.Strategy != feed.StrategyUCB1 {
		t.Errorf("Strategy = %q, want ucb", cfg.Engine.Exploration.Strategy)
	}
	if cfg.Engine.Exploration.Rate != 0.25 {
		t.Errorf("Rate = %f, want 0.25", cfg.Engine.Exploration.Rate)
	}
	if cfg.Engine.Diversity.MaxPerAuthor != 2 {
		t.Errorf("MaxPerAuthor = %d, want 2", cfg.Engine.Diversity.MaxPerAuthor)
	}
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("RANK_EXPLORATION_STRATEGY", "linucb")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want validation failure for unknown strategy")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
logging:
  level: warn
engine:
  exploration:
    strategy: thompson_sampling
    rate: 0.3
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Engine.Exploration.Strategy != feed.StrategyThompson {
		t.Errorf("Strategy = %q, want thompson_sampling", cfg.Engine.Exploration.Strategy)
	}
	if cfg.Engine.Exploration.Rate != 0.3 {
		t.Errorf("Rate = %f, want 0.3", cfg.Engine.Exploration.Rate)
	}

	// Unset fields keep their defaults.
	if cfg.Engine.Diversity.MaxPerAuthor != 3 {
		t.Errorf("MaxPerAuthor = %d, want default 3", cfg.Engine.Diversity.MaxPerAuthor)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RANK_LOGGING_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env beats file)", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "RANK_LOGGING_LEVEL", want: "logging.level"},
		{input: "RANK_LOGGING_FORMAT", want: "logging.format"},
		{input: "RANK_EXPLORATION_STRATEGY", want: "engine.exploration.strategy"},
		{input: "RANK_EXPLORATION_UCB_C", want: "engine.exploration.ucb_c"},
		{input: "RANK_SCORING_LIKES_CAP", want: "engine.scoring.likes_cap"},
		{input: "RANK_DIVERSITY_MAX_PER_AUTHOR", want: "engine.diversity.max_per_author"},
		{input: "RANK_WEIGHTS_TOPIC_RELEVANCE", want: "engine.weights.topic_relevance"},
		{input: "RANK_FILTER_MIN_QUALITY", want: "engine.filter.min_quality"},
		{input: "RANK_EXPLANATION_PERSONA_THRESHOLD", want: "engine.explanation.persona_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

// Package config loads application configuration with koanf.
//
// Configuration is layered in order of precedence:
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Environment variables use the RANK_ prefix with underscores mapping to
// nested keys:
//
//	RANK_LOGGING_LEVEL=debug         -> logging.level
//	RANK_EXPLORATION_STRATEGY=ucb    -> exploration.strategy
//	RANK_DIVERSITY_MAX_PER_AUTHOR=2  -> diversity.max_per_author
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Limeload/x-recommendation-engine/internal/feed"
	"github.com/Limeload/x-recommendation-engine/internal/logging"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/x-recommendation-engine/config.yaml",
	"/etc/x-recommendation-engine/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "RANK_CONFIG_PATH"

// envPrefix namespaces the engine's environment variables.
const envPrefix = "RANK_"

// Config is the root application configuration.
type Config struct {
	// Logging configures the global logger.
	Logging logging.Config `json:"logging" koanf:"logging"`

	// Engine configures the ranking pipeline.
	Engine feed.Config `json:"engine" koanf:"engine"`
}

// defaultConfig returns the built-in defaults applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Engine:  *feed.DefaultConfig(),
	}
}

// Load builds the application configuration from defaults, an optional
// YAML file and environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file. The env override is checked
// first, then the default paths in order.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sectionPrefixes are the top-level config sections recognized in
// environment variable names. Engine subsections map directly so that
// RANK_EXPLORATION_RATE reaches engine.exploration.rate without the
// redundant ENGINE_ segment.
var sectionPrefixes = map[string]string{
	"logging":     "logging",
	"weights":     "engine.weights",
	"scoring":     "engine.scoring",
	"filter":      "engine.filter",
	"diversity":   "engine.diversity",
	"exploration": "engine.exploration",
	"explanation": "engine.explanation",
}

// envTransformFunc converts environment variable names to koanf paths.
//
//	RANK_LOGGING_LEVEL      -> logging.level
//	RANK_EXPLORATION_RATE   -> engine.exploration.rate
//	RANK_SCORING_LIKES_CAP  -> engine.scoring.likes_cap
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	for section, path := range sectionPrefixes {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return path + "." + rest
		}
	}

	// Unrecognized sections are ignored by Unmarshal.
	return strings.ReplaceAll(key, "_", ".")
}

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import "errors"

// Error taxonomy for the ranking core. All errors are surfaced
// synchronously at the call boundary; retries belong to the caller.
var (
	// ErrInvalidInput indicates malformed caller arguments, such as a
	// negative limit.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWeights indicates a weight vector that cannot be
	// normalized (all four primary weights zero).
	ErrInvalidWeights = errors.New("invalid weights")

	// ErrInvalidConfig indicates exploration parameters out of range or
	// an unknown strategy tag.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidEngagementType indicates an unrecognized feedback type.
	ErrInvalidEngagementType = errors.New("invalid engagement type")
)

// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

import (
	"time"
)

// EngagementType classifies viewer feedback on a post shown in a feed.
type EngagementType int

const (
	// EngagementNone indicates the post was shown but not engaged with.
	EngagementNone EngagementType = iota
	// EngagementLike indicates the viewer liked the post.
	EngagementLike
	// EngagementReshare indicates the viewer reshared the post.
	EngagementReshare
	// EngagementReply indicates the viewer replied to the post.
	EngagementReply
	// EngagementBookmark indicates the viewer bookmarked the post.
	EngagementBookmark
)

// String returns a human-readable name for the engagement type.
func (t EngagementType) String() string {
	switch t {
	case EngagementNone:
		return "none"
	case EngagementLike:
		return "like"
	case EngagementReshare:
		return "reshare"
	case EngagementReply:
		return "reply"
	case EngagementBookmark:
		return "bookmark"
	default:
		return "unknown"
	}
}

// Positive reports whether the engagement counts as a success signal.
func (t EngagementType) Positive() bool {
	switch t {
	case EngagementLike, EngagementReshare, EngagementReply, EngagementBookmark:
		return true
	default:
		return false
	}
}

// ParseEngagementType parses an engagement type name.
// Returns ErrInvalidEngagementType for unrecognized names.
func ParseEngagementType(s string) (EngagementType, error) {
	switch s {
	case "none":
		return EngagementNone, nil
	case "like":
		return EngagementLike, nil
	case "reshare":
		return EngagementReshare, nil
	case "reply":
		return EngagementReply, nil
	case "bookmark":
		return EngagementBookmark, nil
	default:
		return EngagementNone, ErrInvalidEngagementType
	}
}

// Post is a short-form post as supplied by the external store.
// The core never mutates a Post; engagement counters are owned by the store.
type Post struct {
	// ID is the unique post identifier.
	ID string `json:"post_id"`

	// AuthorID identifies the post's author.
	AuthorID string `json:"author_id"`

	// AuthorName is an optional human-readable author name.
	AuthorName string `json:"author_name,omitempty"`

	// Body is the post text.
	Body string `json:"body"`

	// CreatedAt is the post creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Engagement counters, maintained externally.
	Likes     int `json:"likes"`
	Reshares  int `json:"reshares"`
	Replies   int `json:"replies"`
	Bookmarks int `json:"bookmarks"`

	// Topics is the set of topic labels attached to the post.
	Topics []string `json:"topics"`

	// QualityScore is an externally assigned quality signal in [0, 1].
	QualityScore float64 `json:"quality_score"`
}

// ViewerProfile describes the viewer a feed is ranked for.
type ViewerProfile struct {
	// ID is the unique viewer identifier.
	ID string `json:"viewer_id"`

	// Interests is the viewer's declared interest set.
	Interests []string `json:"interests"`

	// Expertise is the viewer's expertise areas.
	Expertise []string `json:"expertise"`

	// Following is the set of author IDs the viewer follows.
	Following []string `json:"following,omitempty"`

	// Weights are the viewer's ranking weights. The four primary weights
	// are normalized by the engine before use; Diversity is a penalty
	// coefficient and is excluded from normalization.
	Weights Weights `json:"weights"`
}

// ComponentScores holds the four component scores for one post/viewer pair.
// Each score is in [0, 1]. Recomputed on every ranking call, never stored.
type ComponentScores struct {
	Recency        float64 `json:"recency"`
	Popularity     float64 `json:"popularity"`
	Quality        float64 `json:"quality"`
	TopicRelevance float64 `json:"topic_relevance"`
}

// RankingExplanation explains why a post received its rank.
type RankingExplanation struct {
	// PostID is the post being explained.
	PostID string `json:"post_id"`

	// TotalScore is the weighted component sum minus the diversity
	// penalty, clamped to [0, 1].
	TotalScore float64 `json:"total_score"`

	// Scores are the component scores.
	Scores ComponentScores `json:"scores"`

	// Weights are the effective (normalized) weights used for this call.
	Weights Weights `json:"weights"`

	// DiversityPenalty is the penalty applied by the diversity reranker.
	DiversityPenalty float64 `json:"diversity_penalty"`

	// KeyFactors are human-readable reasons, in rule evaluation order.
	KeyFactors []string `json:"key_factors"`

	// PersonaMatch is the matched persona label, if any.
	PersonaMatch string `json:"persona_match,omitempty"`
}

// Slot labels for RankedPost.SelectedFor.
const (
	SlotExploitation = "exploitation"
	SlotExploration  = "exploration"
)

// RankedPost is one entry in a ranked feed.
type RankedPost struct {
	// Post is the ranked post.
	Post Post `json:"post"`

	// Explanation is the score breakdown for this post.
	Explanation RankingExplanation `json:"explanation"`

	// Rank is the 1-based position in the final feed.
	Rank int `json:"rank"`

	// SelectedFor indicates whether the slot was filled by exploitation
	// or exploration.
	SelectedFor string `json:"selected_for"`
}

// FilterParams are caller-supplied candidate filtering rules.
type FilterParams struct {
	// MinQuality drops posts whose quality score is below the threshold.
	MinQuality float64 `json:"min_quality"`

	// RequireTopics drops posts with an empty topic set.
	RequireTopics bool `json:"require_topics"`

	// ExcludeTopics drops posts carrying any of these topics.
	ExcludeTopics []string `json:"exclude_topics,omitempty"`

	// IncludeTopics keeps only posts carrying at least one of these
	// topics. Posts with no topics are kept; topic presence is enforced
	// separately via RequireTopics.
	IncludeTopics []string `json:"include_topics,omitempty"`

	// ExcludeAuthors drops posts from these authors.
	ExcludeAuthors []string `json:"exclude_authors,omitempty"`
}

// Request is a ranking request for one viewer.
type Request struct {
	// Candidates is the caller-materialized candidate set.
	Candidates []Post `json:"candidates"`

	// Viewer is the profile to rank for.
	Viewer ViewerProfile `json:"viewer"`

	// Limit is the maximum number of posts to return. Zero returns an
	// empty feed; negative values are rejected with ErrInvalidInput.
	Limit int `json:"limit"`

	// Filters are optional candidate filtering rules.
	Filters *FilterParams `json:"filters,omitempty"`

	// RequestID is a unique identifier for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response is a ranked, explained feed.
type Response struct {
	// Posts is the ordered feed.
	Posts []RankedPost `json:"posts"`

	// TotalCandidates is the candidate count before filtering.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// ViewerID is the viewer the feed was ranked for.
	ViewerID string `json:"viewer_id"`

	// Filtered is the candidate count after filtering.
	Filtered int `json:"filtered"`

	// ExplorationSlots is how many slots were filled by exploration.
	ExplorationSlots int `json:"exploration_slots"`

	// Strategy is the exploration strategy in effect, if any.
	Strategy string `json:"strategy,omitempty"`

	// LatencyMS is the ranking latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Reranker reorders an already-scored feed for a secondary objective.
type Reranker interface {
	// Name returns the reranker identifier (e.g. "diversity").
	Name() string

	// Rerank reorders scored posts. Input is sorted by descending total
	// score; output preserves length and may annotate explanations.
	Rerank(posts []RankedPost) []RankedPost
}

// Explorer injects discovery content into a ranked feed and learns from
// engagement feedback. Implemented by the exploration package.
type Explorer interface {
	// Name returns the active strategy name.
	Name() string

	// Inject fills a fraction of the final feed's slots with posts drawn
	// from beyond the exploitation cutoff. seed derives the per-call
	// random source; identical inputs must produce identical output.
	Inject(ranked []RankedPost, limit int, seed uint64) []RankedPost

	// RecordEngagement records viewer feedback for an author's post.
	RecordEngagement(postID, authorID string, typ EngagementType) error
}

// PersonaResolver maps a topic to a persona label from an external
// taxonomy. Implementations return ok=false for unmapped topics.
type PersonaResolver interface {
	ResolvePersona(topic string) (label string, ok bool)
}

// StaticPersonaResolver resolves personas from a fixed topic-to-label table.
type StaticPersonaResolver map[string]string

// ResolvePersona implements PersonaResolver.
func (r StaticPersonaResolver) ResolvePersona(topic string) (string, bool) {
	label, ok := r[topic]
	return label, ok
}

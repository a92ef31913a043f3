// X Recommendation Engine - Exploration-Aware Feed Ranking
// Copyright 2026 Limeload
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Limeload/x-recommendation-engine

package feed

// CandidateFilter removes posts failing quality, topic or author
// constraints before scoring. Filtering has no side effects and an empty
// input yields an empty output.
type CandidateFilter struct {
	cfg FilterConfig
}

// NewCandidateFilter creates a filter with the given defaults.
func NewCandidateFilter(cfg FilterConfig) *CandidateFilter {
	return &CandidateFilter{cfg: cfg}
}

// Apply returns the subset of candidates passing the configured defaults
// merged with the optional per-request params. Params override the
// configured MinQuality and RequireTopics when provided.
func (f *CandidateFilter) Apply(candidates []Post, params *FilterParams) []Post {
	minQuality := f.cfg.MinQuality
	requireTopics := f.cfg.RequireTopics

	var excludeTopics, includeTopics, excludeAuthors map[string]struct{}
	if params != nil {
		if params.MinQuality > minQuality {
			minQuality = params.MinQuality
		}
		if params.RequireTopics {
			requireTopics = true
		}
		excludeTopics = toSet(params.ExcludeTopics)
		includeTopics = toSet(params.IncludeTopics)
		excludeAuthors = toSet(params.ExcludeAuthors)
	}

	out := make([]Post, 0, len(candidates))
	for i := range candidates {
		p := &candidates[i]

		if p.QualityScore < minQuality {
			continue
		}
		if requireTopics && len(p.Topics) == 0 {
			continue
		}
		if _, ok := excludeAuthors[p.AuthorID]; ok {
			continue
		}
		if len(excludeTopics) > 0 && hasAnyTopic(p.Topics, excludeTopics) {
			continue
		}
		// Topic-less posts pass inclusion filters; dropping them is
		// what RequireTopics is for.
		if len(includeTopics) > 0 && len(p.Topics) > 0 && !hasAnyTopic(p.Topics, includeTopics) {
			continue
		}

		out = append(out, *p)
	}

	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func hasAnyTopic(topics []string, set map[string]struct{}) bool {
	for _, t := range topics {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

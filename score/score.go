// Package score computes keyword relevance for candidate records.
package score

import (
	"strings"

	"github.com/poiesic/jobhunter/core"
)

// Weights applied by Score.
const (
	AllKeywordsBoost = 2.0
	AnyKeywordBoost  = 1.0
	LocationBoost    = 0.5
	AvoidPenalty     = 1.0
)

// Score returns the relevance of a candidate under the given criteria.
//
// Matching is a case-insensitive substring test against the candidate's
// title and snippet. The result may be negative.
func Score(candidate *core.Candidate, criteria *core.Criteria) float64 {
	text := strings.ToLower(candidate.Text())

	var score float64
	if len(criteria.KeywordsAll) > 0 && containsAll(text, criteria.KeywordsAll) {
		score += AllKeywordsBoost
	}
	score += AnyKeywordBoost * float64(countMatches(text, criteria.KeywordsAny))
	score += LocationBoost * float64(countMatches(text, criteria.Locations))
	score -= AvoidPenalty * float64(countMatches(text, criteria.Avoid))
	return score
}

// Apply scores the candidate in place and returns the assigned score.
func Apply(candidate *core.Candidate, criteria *core.Criteria) float64 {
	candidate.Score = Score(candidate, criteria)
	return candidate.Score
}

// containsAll reports whether every term occurs in the lowercased text.
func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// countMatches counts the terms that occur in the lowercased text.
func countMatches(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			n++
		}
	}
	return n
}

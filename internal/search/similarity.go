// Package search implements the keyword-mode scoring behind the `search`
// tool's {mode:"keyword"} branch, adapted from the similarity scoring the
// teacher uses to flag duplicate memories before insert.
package search

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[^a-z0-9\s]`)

// tokenize splits text into a lowercase word set, dropping punctuation and
// single-character tokens.
func tokenize(text string) map[string]struct{} {
	text = strings.ToLower(text)
	text = wordPattern.ReplaceAllString(text, " ")

	set := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		if len(word) > 1 {
			set[word] = struct{}{}
		}
	}
	return set
}

// JaccardSimilarity returns the token-set Jaccard coefficient between a and
// b, in [0, 1].
func JaccardSimilarity(a, b string) float64 {
	setA, setB := tokenize(a), tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Hit is one scored keyword-search result.
type Hit struct {
	EntityType string  `json:"entityType"`
	ID         string  `json:"id"`
	Field      string  `json:"field"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

// Candidate is one searchable text field pulled from an entity by the
// caller, before scoring.
type Candidate struct {
	EntityType string
	ID         string
	Field      string
	Text       string
}

// Rank scores every candidate's Text against query and returns the hits at
// or above threshold, sorted by descending score, truncated to limit (0 =
// unlimited).
func Rank(query string, candidates []Candidate, threshold float64, limit int) []Hit {
	var hits []Hit
	for _, c := range candidates {
		score := JaccardSimilarity(query, c.Text)
		if score < threshold {
			continue
		}
		hits = append(hits, Hit{
			EntityType: c.EntityType,
			ID:         c.ID,
			Field:      c.Field,
			Snippet:    truncate(c.Text, 160),
			Score:      score,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

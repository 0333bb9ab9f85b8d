// Package search ranks role-visible documents against a free-text query
// using weighted case-insensitive substring matching.
package search

import (
	"sort"
	"strings"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

// Weights are the per-field relevance contributions. Like the classifier
// weights these are tuned constants kept configurable.
type Weights struct {
	Filename       int
	Summary        int
	DocumentType   int
	ActionItem     int
	Risk           int
	KeyInformation int
}

func DefaultWeights() Weights {
	return Weights{
		Filename:       10,
		Summary:        8,
		DocumentType:   6,
		ActionItem:     5,
		Risk:           5,
		KeyInformation: 4,
	}
}

func (w Weights) normalize() Weights {
	def := DefaultWeights()
	if w.Filename <= 0 {
		w.Filename = def.Filename
	}
	if w.Summary <= 0 {
		w.Summary = def.Summary
	}
	if w.DocumentType <= 0 {
		w.DocumentType = def.DocumentType
	}
	if w.ActionItem <= 0 {
		w.ActionItem = def.ActionItem
	}
	if w.Risk <= 0 {
		w.Risk = def.Risk
	}
	if w.KeyInformation <= 0 {
		w.KeyInformation = def.KeyInformation
	}
	return w
}

// Rank scores every candidate against the query and returns the matches in
// descending score order. Candidates must already be role-filtered and in
// store insertion order: zero scores are dropped and ties keep that original
// order, so identical inputs always produce the identical result list.
func Rank(candidates []domain.Document, query string, weights Weights) []domain.SearchHit {
	w := weights.normalize()
	q := strings.ToLower(query)

	hits := make([]domain.SearchHit, 0, len(candidates))
	for _, doc := range candidates {
		score := scoreDocument(doc, q, w)
		if score == 0 {
			continue
		}
		hits = append(hits, domain.SearchHit{Document: doc.Clone(), Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

func scoreDocument(doc domain.Document, q string, w Weights) int {
	score := 0
	if strings.Contains(strings.ToLower(doc.Filename), q) {
		score += w.Filename
	}
	if strings.Contains(strings.ToLower(doc.Summary), q) {
		score += w.Summary
	}
	if strings.Contains(strings.ToLower(doc.DocumentType), q) {
		score += w.DocumentType
	}
	for _, item := range doc.ActionItems {
		if strings.Contains(strings.ToLower(item), q) {
			score += w.ActionItem
		}
	}
	for _, risk := range doc.Risks {
		if strings.Contains(strings.ToLower(risk), q) {
			score += w.Risk
		}
	}
	for _, value := range doc.KeyInformation {
		for _, s := range value.Strings() {
			if strings.Contains(strings.ToLower(s), q) {
				score += w.KeyInformation
				break
			}
		}
	}
	return score
}

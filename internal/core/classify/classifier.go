package classify

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

// Weights are the product-tuned scoring constants. They are configuration,
// not derived values; the defaults reproduce the shipped behavior.
type Weights struct {
	TextMatch           int
	FuzzyMatch          int
	FilenameMatch       int
	FuzzyThreshold      int
	ConfidenceThreshold int
	// MaxTokens caps how many whitespace tokens of the body participate in
	// the fuzzy pass, bounding cost on pathological inputs.
	MaxTokens int
}

func DefaultWeights() Weights {
	return Weights{
		TextMatch:           10,
		FuzzyMatch:          5,
		FilenameMatch:       15,
		FuzzyThreshold:      80,
		ConfidenceThreshold: 20,
		MaxTokens:           4000,
	}
}

func (w Weights) normalize() Weights {
	def := DefaultWeights()
	if w.TextMatch <= 0 {
		w.TextMatch = def.TextMatch
	}
	if w.FuzzyMatch <= 0 {
		w.FuzzyMatch = def.FuzzyMatch
	}
	if w.FilenameMatch <= 0 {
		w.FilenameMatch = def.FilenameMatch
	}
	if w.FuzzyThreshold <= 0 || w.FuzzyThreshold > 100 {
		w.FuzzyThreshold = def.FuzzyThreshold
	}
	if w.ConfidenceThreshold <= 0 {
		w.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if w.MaxTokens <= 0 {
		w.MaxTokens = def.MaxTokens
	}
	return w
}

// CategoryScore is one category's accumulated evidence, reported in registry
// declaration order.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

type Result struct {
	Category   string          `json:"category"`
	Confidence int             `json:"confidence"`
	Confident  bool            `json:"confident"`
	Scores     []CategoryScore `json:"scores"`
}

// Classifier scores text and filename evidence against the category
// registry. It is pure: no side effects, deterministic for identical inputs.
type Classifier struct {
	registry *domain.Registry
	weights  Weights
}

func New(registry *domain.Registry, weights Weights) *Classifier {
	return &Classifier{registry: registry, weights: weights.normalize()}
}

// Classify accumulates per-category scores: keyword contained in the body,
// near-miss tokens by edit similarity, and keyword contained in the filename
// (filename evidence outweighs body evidence). The winner is the highest
// score; ties go to the earlier category in registry order. A zero maximum
// yields the Unknown sentinel with confidence 0.
func (c *Classifier) Classify(text, filename string) Result {
	textLower := strings.ToLower(text)
	filenameLower := strings.ToLower(filename)

	tokens := strings.Fields(textLower)
	if len(tokens) > c.weights.MaxTokens {
		tokens = tokens[:c.weights.MaxTokens]
	}
	fuzzable := tokens[:0:0]
	for _, tok := range tokens {
		if len([]rune(tok)) > 3 {
			fuzzable = append(fuzzable, tok)
		}
	}

	categories := c.registry.Categories()
	scores := make([]CategoryScore, 0, len(categories))

	best := 0
	bestCategory := domain.CategoryUnknown
	for _, cat := range categories {
		score := 0
		for _, kw := range cat.Keywords {
			kwLower := strings.ToLower(kw)
			if strings.Contains(textLower, kwLower) {
				score += c.weights.TextMatch
			}
			for _, tok := range fuzzable {
				if similarity(kwLower, tok) > c.weights.FuzzyThreshold {
					score += c.weights.FuzzyMatch
				}
			}
			if strings.Contains(filenameLower, kwLower) {
				score += c.weights.FilenameMatch
			}
		}
		scores = append(scores, CategoryScore{Category: cat.Name, Score: score})
		// Strictly-greater keeps the earliest category on ties.
		if score > best {
			best = score
			bestCategory = cat.Name
		}
	}

	if best == 0 {
		return Result{Category: domain.CategoryUnknown, Confidence: 0, Scores: scores}
	}
	return Result{
		Category:   bestCategory,
		Confidence: best,
		Confident:  best > c.weights.ConfidenceThreshold,
		Scores:     scores,
	}
}

// similarity is a normalized edit similarity on a 0-100 scale: 100 means
// identical, 0 means nothing in common relative to the longer string.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return (longest - dist) * 100 / longest
}

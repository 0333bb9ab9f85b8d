// Package naive is the summarizer used when no language model is configured.
// It takes the leading sentences of the document verbatim.
package naive

import (
	"context"
	"strings"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

const (
	maxSentences = 3
	maxRunes     = 400
)

type Summarizer struct{}

func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

func (s *Summarizer) Summarize(_ context.Context, text string) (domain.Insights, error) {
	summary := leadingSentences(text)
	return domain.Insights{
		Summary:  summary,
		Priority: string(domain.PriorityMedium),
	}.Normalize(), nil
}

func leadingSentences(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	var (
		b     strings.Builder
		count int
	)
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			count++
			if count >= maxSentences {
				break
			}
		}
	}
	summary := strings.TrimSpace(b.String())
	runes := []rune(summary)
	if len(runes) > maxRunes {
		summary = strings.TrimSpace(string(runes[:maxRunes])) + "…"
	}
	return summary
}

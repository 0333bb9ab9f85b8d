package naive

import (
	"context"
	"strings"
	"testing"
)

func TestSummarizeTakesLeadingSentences(t *testing.T) {
	text := "Track inspection complete. Two joints need regrinding. Night block requested.\nFourth sentence should not appear."

	insights, err := NewSummarizer().Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "Track inspection complete. Two joints need regrinding. Night block requested."
	if insights.Summary != want {
		t.Errorf("summary = %q, want %q", insights.Summary, want)
	}
	if insights.Priority != "Medium" {
		t.Errorf("priority = %q, want Medium", insights.Priority)
	}
	if insights.ActionItems == nil || insights.Deadlines == nil || insights.Risks == nil {
		t.Error("normalized insights must carry empty slices, not nil")
	}
}

func TestSummarizeTruncatesLongFirstSentence(t *testing.T) {
	text := strings.Repeat("word ", 200) + "."

	insights, err := NewSummarizer().Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got := len([]rune(insights.Summary)); got > maxRunes+1 {
		t.Errorf("summary length = %d runes, want at most %d", got, maxRunes+1)
	}
	if !strings.HasSuffix(insights.Summary, "…") {
		t.Errorf("truncated summary should end with ellipsis, got %q", insights.Summary[len(insights.Summary)-10:])
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	insights, err := NewSummarizer().Summarize(context.Background(), "   \n ")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if insights.Summary != "" {
		t.Errorf("summary = %q, want empty", insights.Summary)
	}
}

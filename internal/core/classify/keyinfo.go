package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

// Per-category extraction patterns. Within each group the patterns are tried
// in declared priority order and the first match wins; a group that never
// matches simply leaves its key out of the mapping.
var (
	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)invoice\s*(?:no|number)?\s*:?\s*([A-Za-z0-9\-/]+)`),
		regexp.MustCompile(`(?i)bill\s*(?:no|number)?\s*:?\s*([A-Za-z0-9\-/]+)`),
	}
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:total|amount|sum)\s*:?\s*₹?\s*([0-9,]+\.?[0-9]*)`),
		regexp.MustCompile(`₹\s*([0-9,]+\.?[0-9]*)`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(?i)(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{2,4})`),
	}
	jobNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)job\s*(?:card|no|number)?\s*:?\s*([A-Za-z0-9\-/]+)`),
		regexp.MustCompile(`(?i)work\s*order\s*:?\s*([A-Za-z0-9\-/]+)`),
	}

	// Ordered by severity; the first keyword found in the text is recorded.
	urgencyKeywords = []string{"urgent", "immediate", "emergency", "critical", "mandatory"}
)

// ExtractKeyInformation pulls category-specific structured fields from the
// text. Categories without a pattern set yield an empty mapping; adding a
// category means adding a pattern group here, not branching elsewhere.
func ExtractKeyInformation(text, category string) domain.KeyInformation {
	info := domain.KeyInformation{}

	switch category {
	case "Invoice":
		if number, ok := firstMatch(invoiceNumberPatterns, text); ok {
			info["invoice_number"] = domain.StringValue(number)
		}
		if amount, ok := firstMatch(amountPatterns, text); ok && parsableAmount(amount) {
			info["amount"] = domain.StringValue(amount)
		}
	case "Safety Notice":
		if dates := allMatches(datePatterns, text); len(dates) > 0 {
			info["dates"] = domain.ListValue(dates...)
		}
		textLower := strings.ToLower(text)
		for _, kw := range urgencyKeywords {
			if strings.Contains(textLower, kw) {
				info["urgency"] = domain.StringValue(kw)
				break
			}
		}
	case "Job Card":
		if number, ok := firstMatch(jobNumberPatterns, text); ok {
			info["job_number"] = domain.StringValue(number)
		}
	}

	return info
}

func firstMatch(patterns []*regexp.Regexp, text string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// allMatches collects every capture of the first pattern that matches at all,
// mirroring the first-group-wins rule while keeping all of its hits.
func allMatches(patterns []*regexp.Regexp, text string) []string {
	for _, p := range patterns {
		ms := p.FindAllStringSubmatch(text, -1)
		if len(ms) == 0 {
			continue
		}
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m[1])
		}
		return out
	}
	return nil
}

// parsableAmount is the best-effort numeric check: a captured token that does
// not survive a float parse after stripping separators is omitted rather
// than stored.
func parsableAmount(raw string) bool {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" || cleaned == "." {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

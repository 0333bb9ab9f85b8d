package ollama

import "fmt"

const maxSnippet = 4000

func buildSummaryPrompt(text string) string {
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `You are a document analyst for a metro rail operator.
Return strict JSON object with keys:
summary (string, 2-3 sentences), action_items (array of strings), deadlines (array of strings), risks (array of strings), priority (one of "High", "Medium", "Low").
No markdown, no extra keys.

Document:
` + snippet
}

func buildTranslationPrompt(text, sourceLang string) string {
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return fmt.Sprintf(`Translate the following document from %s to English.
Return only the translated text, nothing else.

Document:
%s`, sourceLang, snippet)
}

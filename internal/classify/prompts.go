package classify

import (
	"fmt"
	"strings"
)

const sentimentSystemPrompt = `You are a media analyst scoring French press headlines about a public figure.
For each numbered headline, assign a sentiment score between -1.0 (very negative coverage) and 1.0 (very positive coverage). 0 means neutral or purely factual.
Judge the coverage of the person, not the general mood of the news.
Respond with a single JSON object mapping each number to its score, for example {"1": -0.4, "2": 0.1}. No other text.`

const themesSystemPrompt = `You are a media analyst auditing French press coverage of a public figure.
Group the numbered headlines into recurring themes. For each theme give its name, how many headlines it covers, its dominant tone (positive, neutral or negative) and up to 3 example headlines.
Also write a short factual summary of the overall coverage.
Respond with a single JSON object: {"summary": "...", "themes": [{"theme": "...", "count": N, "tone": "...", "examples": ["..."]}]}. No other text.`

// numberedList renders titles as "1. title" lines, the format both
// prompts instruct the model to key its answer on.
func numberedList(titles []string) string {
	var b strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	return b.String()
}

func sentimentUserContent(name string, titles []string) string {
	return fmt.Sprintf("Public figure: %s\n\nHeadlines:\n%s", name, numberedList(titles))
}

func themesUserContent(name string, titles []string) string {
	return fmt.Sprintf("Public figure: %s\n\nHeadlines:\n%s", name, numberedList(titles))
}

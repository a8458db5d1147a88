package models

// Classification kinds accepted by the classifier.
const (
	KindSentiment = "sentiment"
	KindThemes    = "themes"
)

// Tone labels used for themes. Unknown values from the model are
// normalized to ToneNeutral.
const (
	TonePositive = "positive"
	ToneNeutral  = "neutral"
	ToneNegative = "negative"
)

// SentimentResult maps each successfully classified title to its score
// in [-1, 1]. Total counts only titles that were actually scored, so
// Positive+Neutral+Negative == Total always holds.
type SentimentResult struct {
	Scores    map[string]float64 `json:"scores"`
	Average   float64            `json:"average"`
	Positive  int                `json:"positive"`
	Neutral   int                `json:"neutral"`
	Negative  int                `json:"negative"`
	Total     int                `json:"total"`
	FromCache bool               `json:"fromCache"`
	Error     string             `json:"error,omitempty"`
}

// Theme is one thematic cluster of titles.
type Theme struct {
	Theme    string   `json:"theme"`
	Count    int      `json:"count"`
	Tone     string   `json:"tone"`
	Examples []string `json:"examples"`
}

// ThemesResult is the thematic classification of a title set.
type ThemesResult struct {
	Summary   string  `json:"summary"`
	Themes    []Theme `json:"themes"`
	FromCache bool    `json:"fromCache"`
	Error     string  `json:"error,omitempty"`
}

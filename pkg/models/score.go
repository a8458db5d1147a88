package models

// RawSignals holds the raw per-entity inputs of the scoring engine.
type RawSignals struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Trends         float64 `json:"trends"`
	PressCount     int     `json:"pressCount"`
	PressDomains   int     `json:"pressDomains"`
	WikipediaViews int64   `json:"wikipediaViews"`
	VideoViews     int64   `json:"youtubeViews"`
}

// ScoreComponents is one value per scored component, on a 0-100 scale
// for Breakdown and weighted for Contributions.
type ScoreComponents struct {
	Trends    float64 `json:"trends"`
	Press     float64 `json:"press"`
	Wikipedia float64 `json:"wikipedia"`
	Video     float64 `json:"youtube"`
}

// CompositeScore is the derived, never-persisted score of one entity.
// Recomputed from raw signals on every request so weight changes apply
// retroactively without cache invalidation.
type CompositeScore struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Total         float64         `json:"total"`
	Breakdown     ScoreComponents `json:"breakdown"`
	Contributions ScoreComponents `json:"contributions"`
	Raw           RawSignals      `json:"raw"`
}

// ScoreBoard is the ranked cohort result.
type ScoreBoard struct {
	Scores []CompositeScore `json:"scores"`
	Leader *CompositeScore  `json:"leader"`
	Totals CohortTotals     `json:"totals"`
}

// CohortTotals sums raw signals across the whole cohort.
type CohortTotals struct {
	Articles       int   `json:"articles"`
	WikipediaViews int64 `json:"wikipediaViews"`
	VideoViews     int64 `json:"youtubeViews"`
}

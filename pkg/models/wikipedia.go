package models

// PageviewsSummary is the Wikipedia pageviews signal for one entity and
// window. Variation is the percentage change of the daily average
// versus the immediately preceding window of equal length.
type PageviewsSummary struct {
	Views     int64            `json:"views"`
	Variation float64          `json:"variation"`
	AvgDaily  int64            `json:"avgDaily"`
	Daily     map[string]int64 `json:"daily"`
	Error     string           `json:"error,omitempty"`
}

// InterestPoint is one day of the search-interest timeline.
type InterestPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// InterestSummary is the search-interest signal for one keyword.
// Values are already on the provider's 0-100 scale.
type InterestSummary struct {
	Keyword      string          `json:"keyword"`
	CurrentValue int             `json:"currentValue"`
	MaxValue     int             `json:"maxValue"`
	AvgValue     int             `json:"avgValue"`
	Timeline     []InterestPoint `json:"timeline"`
	Available    bool            `json:"available"`
	Error        string          `json:"error,omitempty"`
}

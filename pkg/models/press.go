package models

import "time"

// Article is a single press mention produced by one of the article
// sources. Uniqueness is decided on the query-stripped, lower-cased URL.
type Article struct {
	Title  string    `json:"title"`
	URL    string    `json:"url"`
	Domain string    `json:"domain"`
	Date   time.Time `json:"date"`
	Source string    `json:"source"`
}

// DomainCount is one row of the per-domain histogram.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// PressSummary is the merged, deduplicated press signal for one
// entity and window.
type PressSummary struct {
	Articles       []Article     `json:"articles"`
	Count          int           `json:"count"`
	Domains        int           `json:"domains"`
	TopMedia       string        `json:"topMedia,omitempty"`
	TopMediaCount  int           `json:"topMediaCount"`
	MediaBreakdown []DomainCount `json:"mediaBreakdown"`
	Error          string        `json:"error,omitempty"`
}

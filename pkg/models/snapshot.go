package models

// SignalSnapshot bundles every raw signal for one entity and window.
// Ephemeral: recomputed on cache miss, persisted only inside the cache
// store. A missing signal is carried as its zero summary with the
// Error field set by the adapter that failed.
type SignalSnapshot struct {
	Entity    Entity           `json:"entity"`
	Days      int              `json:"days"`
	Press     PressSummary     `json:"press"`
	Video     VideoSummary     `json:"youtube"`
	Wikipedia PageviewsSummary `json:"wikipedia"`
	Trends    float64          `json:"trends"`
}

// RawSignals projects the snapshot onto the scoring engine's input.
func (s *SignalSnapshot) RawSignals() RawSignals {
	return RawSignals{
		ID:             s.Entity.ID,
		Name:           s.Entity.Name,
		Trends:         s.Trends,
		PressCount:     s.Press.Count,
		PressDomains:   s.Press.Domains,
		WikipediaViews: s.Wikipedia.Views,
		VideoViews:     s.Video.TotalViews,
	}
}

package scoring

import (
	"math"
	"sort"

	"github.com/mediascope/visibility/pkg/models"
)

// Component weights of the composite score. They sum to 1 so a
// component maxed at 100 contributes exactly its weight times 100.
const (
	WeightTrends    = 0.30
	WeightPress     = 0.30
	WeightWikipedia = 0.25
	WeightVideo     = 0.15
)

// Log-scale divisors for the absolute fallback, applied when the whole
// cohort has no signal to normalize against. log10(100k)=5 pageviews
// and log10(1M)=6 video views both land at 100.
const (
	wikipediaLogDivisor = 5.0
	videoLogDivisor     = 6.0
)

// Compute turns raw per-entity signals into a ranked scoreboard.
// Scores are relative within the cohort: the same raw numbers produce
// different scores against a different cohort, which is intended.
func Compute(signals []models.RawSignals, periodDays int) models.ScoreBoard {
	board := models.ScoreBoard{
		Scores: make([]models.CompositeScore, 0, len(signals)),
	}
	if len(signals) == 0 {
		return board
	}

	var (
		maxPress     int
		maxWikipedia int64
		maxVideo     int64
	)
	for _, s := range signals {
		if s.PressCount > maxPress {
			maxPress = s.PressCount
		}
		if s.WikipediaViews > maxWikipedia {
			maxWikipedia = s.WikipediaViews
		}
		if s.VideoViews > maxVideo {
			maxVideo = s.VideoViews
		}
		board.Totals.Articles += s.PressCount
		board.Totals.WikipediaViews += s.WikipediaViews
		board.Totals.VideoViews += s.VideoViews
	}

	domainThreshold := float64(2 * periodDays)
	if domainThreshold < 5 {
		domainThreshold = 5
	}

	for _, s := range signals {
		breakdown := models.ScoreComponents{
			Trends:    round1(math.Min(100, math.Max(0, s.Trends))),
			Press:     round1(pressScore(s.PressCount, s.PressDomains, maxPress, domainThreshold)),
			Wikipedia: round1(normalize(float64(s.WikipediaViews), float64(maxWikipedia), wikipediaLogDivisor)),
			Video:     round1(normalize(float64(s.VideoViews), float64(maxVideo), videoLogDivisor)),
		}

		contributions := models.ScoreComponents{
			Trends:    round1(breakdown.Trends * WeightTrends),
			Press:     round1(breakdown.Press * WeightPress),
			Wikipedia: round1(breakdown.Wikipedia * WeightWikipedia),
			Video:     round1(breakdown.Video * WeightVideo),
		}

		// Summing the rounded contributions keeps the total equal to
		// the component values actually shown next to it.
		total := contributions.Trends +
			contributions.Press +
			contributions.Wikipedia +
			contributions.Video

		board.Scores = append(board.Scores, models.CompositeScore{
			ID:            s.ID,
			Name:          s.Name,
			Total:         round1(math.Min(100, total)),
			Breakdown:     breakdown,
			Contributions: contributions,
			Raw:           s,
		})
	}

	sort.SliceStable(board.Scores, func(i, j int) bool {
		return board.Scores[i].Total > board.Scores[j].Total
	})
	if len(board.Scores) > 0 {
		board.Leader = &board.Scores[0]
	}
	return board
}

// pressScore blends cohort-relative volume (up to 80 points) with a
// source-diversity bonus (up to 20 points). The diversity threshold
// scales with the window so long windows demand broader coverage.
func pressScore(count, domains, maxCount int, domainThreshold float64) float64 {
	if maxCount < 1 {
		maxCount = 1
	}
	volume := 80 * float64(count) / float64(maxCount)
	diversity := math.Min(20, 20*float64(domains)/domainThreshold)
	return math.Min(100, volume+diversity)
}

// normalize scales a value against the cohort maximum. When the whole
// cohort is at zero (cold caches, upstream outage) it falls back to an
// absolute log scale so a lone nonzero value still registers.
func normalize(value, cohortMax, logDivisor float64) float64 {
	if cohortMax > 0 {
		return value / cohortMax * 100
	}
	if value > 0 {
		return math.Min(100, 100*math.Log10(value)/logDivisor)
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

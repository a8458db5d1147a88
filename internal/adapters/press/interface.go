package press

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

// Source is an independent article provider. Implementations return
// raw, possibly duplicated and out-of-window results; merging and
// filtering happen downstream.
type Source interface {
	// Name returns the origin tag stamped on returned articles.
	Name() string

	// Search fetches articles matching the query inside the window.
	// Providers with weaker recency semantics may overshoot the
	// window; the merge engine filters afterwards.
	Search(ctx context.Context, query string, from, to time.Time) ([]models.Article, error)
}

// Aggregator fans a query out to every source in parallel and merges
// the results. A failed or empty source contributes zero articles and
// never fails the aggregation.
type Aggregator struct {
	sources []Source
}

// NewAggregator creates a press aggregator over the given sources.
// Source order decides which duplicate survives the merge.
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// Fetch queries all sources and returns the merged, deduplicated,
// window-filtered press summary.
func (a *Aggregator) Fetch(ctx context.Context, query string, from, to time.Time) models.PressSummary {
	lists := make([][]models.Article, len(a.sources))

	type result struct {
		idx      int
		articles []models.Article
		err      error
	}

	results := make(chan result, len(a.sources))
	for i, src := range a.sources {
		go func(idx int, s Source) {
			articles, err := s.Search(ctx, query, from, to)
			results <- result{idx: idx, articles: articles, err: err}
		}(i, src)
	}

	for range a.sources {
		res := <-results
		if res.err != nil {
			logger.Warn("press source failed",
				zap.String("source", a.sources[res.idx].Name()),
				zap.String("query", query),
				zap.Error(res.err),
			)
			continue
		}
		lists[res.idx] = res.articles
	}

	summary := Merge(lists, from, to)

	logger.Debug("press aggregated",
		zap.String("query", query),
		zap.Int("count", summary.Count),
		zap.Int("domains", summary.Domains),
	)

	return summary
}

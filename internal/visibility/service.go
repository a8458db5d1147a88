package visibility

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/internal/adapters/press"
	"github.com/mediascope/visibility/internal/adapters/trends"
	"github.com/mediascope/visibility/internal/adapters/video"
	"github.com/mediascope/visibility/internal/adapters/wikipedia"
	"github.com/mediascope/visibility/internal/roster"
	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

// Cohort snapshots fetch at most this many entities at once. Keeps
// upstream rate limits happy while still overlapping network waits.
const cohortConcurrency = 4

// Service orchestrates every raw signal behind the bucketed cache.
// Upstream failures degrade to a zero summary with the Error field
// set; the only errors that escape to callers are programming errors.
type Service struct {
	entities *roster.Roster
	trends   *trends.Client

	pressCache *Bucketed[models.PressSummary]
	videoCache *Bucketed[models.VideoSummary]
	wikiSource *wikipedia.Source
	store      cache.Store
}

// NewService wires the signal adapters behind their caches.
func NewService(
	entities *roster.Roster,
	aggregator *press.Aggregator,
	videoSource *video.Source,
	wikiSource *wikipedia.Source,
	trendsClient *trends.Client,
	store cache.Store,
) *Service {
	s := &Service{
		entities:   entities,
		trends:     trendsClient,
		wikiSource: wikiSource,
		store:      store,
	}

	s.pressCache = NewBucketed(store, "press",
		func(ctx context.Context, entityID string, from, to time.Time) (models.PressSummary, error) {
			e, ok := entities.Get(entityID)
			if !ok {
				return models.PressSummary{}, fmt.Errorf("unknown entity %q", entityID)
			}
			return aggregator.Fetch(ctx, e.PrimarySearchTerm(), from, to), nil
		},
		filterPress,
	)

	s.videoCache = NewBucketed(store, "youtube",
		func(ctx context.Context, entityID string, from, to time.Time) (models.VideoSummary, error) {
			e, ok := entities.Get(entityID)
			if !ok {
				return models.VideoSummary{}, fmt.Errorf("unknown entity %q", entityID)
			}
			videos, err := videoSource.Search(ctx, e.PrimarySearchTerm(), from, to)
			if err != nil {
				return models.VideoSummary{}, err
			}
			summary := models.ComputeVideoAggregates(videos)
			summary.OfficialChannel = e.VideoChannel
			return summary, nil
		},
		filterVideo,
	)

	return s
}

// filterPress projects a cached press bucket down to the requested
// window, rerunning the merge so every aggregate is recomputed.
func filterPress(full models.PressSummary, from, to time.Time) models.PressSummary {
	return press.Merge([][]models.Article{full.Articles}, from, to)
}

// filterVideo keeps the bucket's videos published inside the window
// and rebuilds the aggregates from that subset.
func filterVideo(full models.VideoSummary, from, to time.Time) models.VideoSummary {
	kept := make([]models.Video, 0, len(full.Videos))
	for _, v := range full.Videos {
		published, err := time.Parse("2006-01-02", v.Published)
		if err != nil {
			continue
		}
		if published.Before(from.Truncate(24*time.Hour)) || published.After(to) {
			continue
		}
		kept = append(kept, v)
	}
	summary := models.ComputeVideoAggregates(kept)
	summary.OfficialChannel = full.OfficialChannel
	return summary
}

// Press returns the press signal for one entity and window.
func (s *Service) Press(ctx context.Context, e models.Entity, days int) models.PressSummary {
	summary, _, err := s.pressCache.Get(ctx, e.ID, days, time.Now())
	if err != nil {
		logger.Warn("press fetch failed",
			zap.String("entity", e.ID),
			zap.Error(err),
		)
		return models.PressSummary{Articles: []models.Article{}, Error: err.Error()}
	}
	return summary
}

// Video returns the video signal for one entity and window.
func (s *Service) Video(ctx context.Context, e models.Entity, days int) models.VideoSummary {
	summary, hit, err := s.videoCache.Get(ctx, e.ID, days, time.Now())
	if err != nil {
		logger.Warn("video fetch failed",
			zap.String("entity", e.ID),
			zap.Error(err),
		)
		return models.VideoSummary{Videos: []models.Video{}, Error: err.Error()}
	}
	summary.FromCache = hit
	return summary
}

// Wikipedia returns the pageviews signal for one entity and window.
// Cached per exact window, not bucketed: the variation against the
// preceding window cannot be recomputed from a filtered bucket.
func (s *Service) Wikipedia(ctx context.Context, e models.Entity, days int) models.PageviewsSummary {
	if e.WikipediaPage == "" {
		return models.PageviewsSummary{Daily: map[string]int64{}}
	}

	_, ttl := bucketFor(days)
	key := cache.BuildKey("wikipedia", e.ID, days)

	if data, ok := s.store.Get(ctx, key); ok {
		var cached models.PageviewsSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	now := time.Now()
	summary, err := s.wikiSource.Get(ctx, e.WikipediaPage, now.AddDate(0, 0, -days), now)
	if err != nil {
		logger.Warn("pageviews fetch failed",
			zap.String("entity", e.ID),
			zap.Error(err),
		)
		return models.PageviewsSummary{Daily: map[string]int64{}, Error: err.Error()}
	}

	if data, err := json.Marshal(summary); err == nil {
		s.store.Set(ctx, key, data, ttl)
	}
	return summary
}

// Trends returns the raw interest timeline for one entity.
func (s *Service) Trends(ctx context.Context, e models.Entity, days int) models.InterestSummary {
	summary, err := s.trends.Get(ctx, e.PrimarySearchTerm(), days)
	if err != nil {
		logger.Warn("trends fetch failed",
			zap.String("entity", e.ID),
			zap.Error(err),
		)
		return models.InterestSummary{Keyword: e.PrimarySearchTerm(), Error: err.Error()}
	}
	summary.Available = true
	return summary
}

// TrendsBatch returns one 0-100 interest score per entity id.
func (s *Service) TrendsBatch(ctx context.Context, entities []models.Entity, days int) map[string]float64 {
	keywords := make([]string, len(entities))
	for i, e := range entities {
		keywords[i] = e.PrimarySearchTerm()
	}

	byKeyword := s.trends.Batch(ctx, keywords, days)

	scores := make(map[string]float64, len(entities))
	for i, e := range entities {
		scores[e.ID] = byKeyword[keywords[i]]
	}
	return scores
}

// Snapshot assembles every raw signal for one entity. The three
// windowed signals are fetched concurrently; trends rides the shared
// batch endpoint even for a single entity.
func (s *Service) Snapshot(ctx context.Context, e models.Entity, days int) models.SignalSnapshot {
	snapshot := models.SignalSnapshot{Entity: e, Days: days}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot.Press = s.Press(gctx, e, days)
		return nil
	})
	g.Go(func() error {
		snapshot.Video = s.Video(gctx, e, days)
		return nil
	})
	g.Go(func() error {
		snapshot.Wikipedia = s.Wikipedia(gctx, e, days)
		return nil
	})
	_ = g.Wait()

	snapshot.Trends = s.TrendsBatch(ctx, []models.Entity{e}, days)[e.ID]
	return snapshot
}

// Snapshots assembles raw signals for a whole cohort, at most
// cohortConcurrency entities in flight. Trends is one batched call
// afterwards so the cohort shares a single interest request chain.
func (s *Service) Snapshots(ctx context.Context, entities []models.Entity, days int) []models.SignalSnapshot {
	snapshots := make([]models.SignalSnapshot, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cohortConcurrency)
	for i, e := range entities {
		i, e := i, e
		g.Go(func() error {
			snap := models.SignalSnapshot{Entity: e, Days: days}

			inner, ictx := errgroup.WithContext(gctx)
			inner.Go(func() error {
				snap.Press = s.Press(ictx, e, days)
				return nil
			})
			inner.Go(func() error {
				snap.Video = s.Video(ictx, e, days)
				return nil
			})
			inner.Go(func() error {
				snap.Wikipedia = s.Wikipedia(ictx, e, days)
				return nil
			})
			_ = inner.Wait()

			snapshots[i] = snap
			return nil
		})
	}
	_ = g.Wait()

	trendScores := s.TrendsBatch(ctx, entities, days)
	for i := range snapshots {
		snapshots[i].Trends = trendScores[snapshots[i].Entity.ID]
	}
	return snapshots
}

package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const pageviewsAPIBase = "https://wikimedia.org/api/rest_v1/metrics/pageviews/per-article"

// Source fetches daily pageview counts from the Wikimedia REST API.
type Source struct {
	project   string
	userAgent string
	client    *http.Client
}

// NewSource creates a pageviews source for one Wikipedia project
// (e.g. "fr.wikipedia").
func NewSource(project string) *Source {
	return &Source{
		project:   project,
		userAgent: "VisibilityBarometer/1.0 (contact@mediascope.example)",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Get returns views for the window plus the percentage variation
// against the immediately preceding window of equal length. Failures
// on the reference window are ignored; the variation stays 0.
func (s *Source) Get(ctx context.Context, pageTitle string, from, to time.Time) (models.PageviewsSummary, error) {
	days := int(to.Sub(from).Hours() / 24)
	if days < 1 {
		days = 1
	}

	items, err := s.fetchDaily(ctx, pageTitle, from, to)
	if err != nil {
		return models.PageviewsSummary{Daily: map[string]int64{}}, err
	}

	var views int64
	daily := make(map[string]int64, len(items))
	for _, item := range items {
		views += item.Views
		if len(item.Timestamp) >= 8 {
			ts := item.Timestamp
			daily[fmt.Sprintf("%s-%s-%s", ts[0:4], ts[4:6], ts[6:8])] = item.Views
		}
	}

	avgDaily := float64(views) / float64(days)

	// Reference window ends the day before the current one starts.
	refTo := from.AddDate(0, 0, -1)
	refFrom := refTo.AddDate(0, 0, -days)

	variation := 0.0
	refItems, err := s.fetchDaily(ctx, pageTitle, refFrom, refTo)
	if err != nil {
		logger.Debug("pageviews reference window unavailable",
			zap.String("page", pageTitle),
			zap.Error(err),
		)
	} else {
		var refViews int64
		for _, item := range refItems {
			refViews += item.Views
		}
		refAvgDaily := float64(refViews) / float64(days)
		if refAvgDaily > 0 {
			variation = (avgDaily - refAvgDaily) / refAvgDaily * 100
		}
	}

	return models.PageviewsSummary{
		Views:     views,
		Variation: math.Round(variation*10) / 10,
		AvgDaily:  int64(math.Round(avgDaily)),
		Daily:     daily,
	}, nil
}

type pageviewItem struct {
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
}

func (s *Source) fetchDaily(ctx context.Context, pageTitle string, from, to time.Time) ([]pageviewItem, error) {
	endpoint := fmt.Sprintf("%s/%s/all-access/user/%s/daily/%s/%s",
		pageviewsAPIBase,
		s.project,
		url.PathEscape(pageTitle),
		from.UTC().Format("20060102"),
		to.UTC().Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []pageviewItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Items, nil
}

package press

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const gdeltAPIURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// GDELTSource fetches press articles from the GDELT DOC API.
type GDELTSource struct {
	client     *http.Client
	sourceLang string
}

// NewGDELTSource creates a GDELT article source.
func NewGDELTSource(sourceLang string) *GDELTSource {
	return &GDELTSource{
		client:     &http.Client{Timeout: 30 * time.Second},
		sourceLang: sourceLang,
	}
}

func (g *GDELTSource) Name() string {
	return "GDELT"
}

func (g *GDELTSource) Search(ctx context.Context, query string, from, to time.Time) ([]models.Article, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%q", query))
	params.Set("mode", "ArtList")
	params.Set("format", "json")
	params.Set("maxrecords", "250")
	params.Set("startdatetime", from.UTC().Format("20060102150405"))
	params.Set("enddatetime", to.UTC().Format("20060102150405"))
	if g.sourceLang != "" {
		params.Set("sourcelang", g.sourceLang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gdeltAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Articles []struct {
			Title    string `json:"title"`
			URL      string `json:"url"`
			Domain   string `json:"domain"`
			SeenDate string `json:"seendate"`
		} `json:"articles"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.URL == "" {
			continue
		}

		articles = append(articles, models.Article{
			Title:  a.Title,
			URL:    a.URL,
			Domain: a.Domain,
			Date:   parseSeenDate(a.SeenDate),
			Source: g.Name(),
		})
	}

	logger.Debug("fetched GDELT articles",
		zap.String("query", query),
		zap.Int("count", len(articles)),
	)

	return articles, nil
}

// parseSeenDate parses GDELT's seendate (20060102T150405Z). A zero
// time marks the article for the merge engine to drop.
func parseSeenDate(s string) time.Time {
	if len(s) < 8 {
		return time.Time{}
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}
	}
	return t
}

package press

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"go.uber.org/zap"

	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const googleNewsRSSURL = "https://news.google.com/rss/search"

// GoogleNewsSource fetches press articles from the Google News RSS
// search feed. The feed has no date-range parameter; it returns recent
// items and relies on the merge engine's window filter.
type GoogleNewsSource struct {
	client *http.Client
	lang   string
	geo    string
}

// NewGoogleNewsSource creates a Google News article source.
func NewGoogleNewsSource(lang, geo string) *GoogleNewsSource {
	return &GoogleNewsSource{
		client: &http.Client{Timeout: 15 * time.Second},
		lang:   lang,
		geo:    geo,
	}
}

func (g *GoogleNewsSource) Name() string {
	return "Google News"
}

func (g *GoogleNewsSource) Search(ctx context.Context, query string, from, to time.Time) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", g.lang)
	params.Set("gl", g.geo)
	params.Set("ceid", fmt.Sprintf("%s:%s", g.geo, g.lang))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleNewsRSSURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VisibilityBot/1.0)")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d", resp.StatusCode)
	}

	feed, err := (&rss.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		var published time.Time
		if item.PubDateParsed != nil {
			published = *item.PubDateParsed
		}

		// The RSS <source> tag carries the outlet name; fall back to
		// the link host when absent.
		domain := ""
		if item.Source != nil {
			domain = item.Source.Title
		}
		if domain == "" {
			domain = ExtractDomain(item.Link)
		}

		articles = append(articles, models.Article{
			Title:  item.Title,
			URL:    item.Link,
			Domain: domain,
			Date:   published,
			Source: g.Name(),
		})
	}

	logger.Debug("fetched Google News articles",
		zap.String("query", query),
		zap.Int("count", len(articles)),
	)

	return articles, nil
}

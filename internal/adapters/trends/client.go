package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

// The interest backend accepts at most this many keywords per call;
// larger cohorts are chunked into sequential requests.
const maxKeywordsPerBatch = 5

// Client talks to the external search-interest backend. Scores are on
// the backend's 0-100 scale and enter the scoring engine unchanged.
type Client struct {
	baseURL string
	geo     string
	store   cache.Store
	client  *http.Client
}

// NewClient creates an interest-index client. An empty base URL
// disables the client; batch calls return zero scores.
func NewClient(cfg *config.TrendsConfig, store cache.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		geo:     cfg.Geo,
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a backend is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Get returns the interest timeline for a single keyword.
func (c *Client) Get(ctx context.Context, keyword string, days int) (models.InterestSummary, error) {
	if !c.Enabled() {
		return models.InterestSummary{Keyword: keyword}, fmt.Errorf("trends backend not configured")
	}

	params := url.Values{}
	params.Set("q", keyword)
	params.Set("days", strconv.Itoa(days))
	params.Set("geo", c.geo)

	var result models.InterestSummary
	if err := c.getJSON(ctx, "/api/trends?"+params.Encode(), &result); err != nil {
		return models.InterestSummary{Keyword: keyword}, err
	}
	result.Keyword = keyword
	return result, nil
}

// Batch returns one 0-100 score per keyword for the window. Results
// are cached for 12 hours under the sorted keyword list; a failed
// chunk zero-fills its keywords instead of failing the batch.
func (c *Client) Batch(ctx context.Context, keywords []string, days int) map[string]float64 {
	scores := make(map[string]float64, len(keywords))
	for _, kw := range keywords {
		scores[kw] = 0
	}
	if !c.Enabled() || len(keywords) == 0 {
		return scores
	}

	sorted := append([]string(nil), keywords...)
	sort.Strings(sorted)
	key := cache.BuildKey("trends", strings.Join(sorted, "|"), days)

	if data, ok := c.store.Get(ctx, key); ok {
		var cached map[string]float64
		if err := json.Unmarshal(data, &cached); err == nil {
			for kw := range scores {
				if v, found := cached[kw]; found {
					scores[kw] = v
				}
			}
			return scores
		}
	}

	fetched := 0
	for start := 0; start < len(keywords); start += maxKeywordsPerBatch {
		end := start + maxKeywordsPerBatch
		if end > len(keywords) {
			end = len(keywords)
		}
		chunk := keywords[start:end]

		chunkScores, err := c.fetchChunk(ctx, chunk, days)
		if err != nil {
			logger.Warn("interest batch chunk failed",
				zap.Strings("keywords", chunk),
				zap.Error(err),
			)
			continue
		}
		for kw, v := range chunkScores {
			scores[kw] = v
			fetched++
		}
	}

	// Partial results are usable but not worth caching: a retry may
	// fill the missing keywords.
	if fetched == len(keywords) {
		if data, err := json.Marshal(scores); err == nil {
			c.store.Set(ctx, key, data, cache.TTLTrends)
		}
	}

	return scores
}

func (c *Client) fetchChunk(ctx context.Context, keywords []string, days int) (map[string]float64, error) {
	params := url.Values{}
	params.Set("keywords", strings.Join(keywords, ","))
	params.Set("days", strconv.Itoa(days))
	params.Set("geo", c.geo)

	var result struct {
		Scores map[string]float64 `json:"scores"`
		Error  string             `json:"error"`
	}
	if err := c.getJSON(ctx, "/api/trends/batch?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("backend error: %s", result.Error)
	}
	return result.Scores, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

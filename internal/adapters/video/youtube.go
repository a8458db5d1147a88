package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/pkg/logger"
	"github.com/mediascope/visibility/pkg/models"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

// Source fetches video statistics from the YouTube Data API. Search
// and statistics are two separate calls joined on video id.
type Source struct {
	apiKey string
	region string
	client *http.Client
}

// NewSource creates a YouTube video source. An empty API key disables
// the source; searches return an error the caller degrades on.
func NewSource(cfg *config.YouTubeConfig) *Source {
	return &Source{
		apiKey: cfg.APIKey,
		region: cfg.Region,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the source has credentials.
func (s *Source) Enabled() bool {
	return s.apiKey != ""
}

// Search returns videos matching the query published inside the
// window, with their engagement statistics and short/long class.
func (s *Source) Search(ctx context.Context, query string, from, to time.Time) ([]models.Video, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("youtube API key not configured")
	}

	searchParams := url.Values{}
	searchParams.Set("part", "snippet")
	searchParams.Set("q", query)
	searchParams.Set("type", "video")
	searchParams.Set("maxResults", "50")
	searchParams.Set("order", "relevance")
	searchParams.Set("publishedAfter", from.UTC().Format(time.RFC3339))
	searchParams.Set("publishedBefore", to.UTC().Format(time.RFC3339))
	searchParams.Set("regionCode", s.region)
	searchParams.Set("key", s.apiKey)

	var searchData struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				PublishedAt  string `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}

	if err := s.getJSON(ctx, youtubeAPIBase+"/search?"+searchParams.Encode(), &searchData); err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	ids := make([]string, 0, len(searchData.Items))
	for _, item := range searchData.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []models.Video{}, nil
	}

	statsParams := url.Values{}
	statsParams.Set("part", "statistics,contentDetails")
	statsParams.Set("id", strings.Join(ids, ","))
	statsParams.Set("key", s.apiKey)

	var statsData struct {
		Items []struct {
			ID         string `json:"id"`
			Statistics struct {
				ViewCount    string `json:"viewCount"`
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := s.getJSON(ctx, youtubeAPIBase+"/videos?"+statsParams.Encode(), &statsData); err != nil {
		return nil, fmt.Errorf("youtube stats failed: %w", err)
	}

	type stats struct {
		views, likes, comments int64
		duration               string
	}
	statsByID := make(map[string]stats, len(statsData.Items))
	for _, item := range statsData.Items {
		statsByID[item.ID] = stats{
			views:    parseCount(item.Statistics.ViewCount),
			likes:    parseCount(item.Statistics.LikeCount),
			comments: parseCount(item.Statistics.CommentCount),
			duration: item.ContentDetails.Duration,
		}
	}

	videos := make([]models.Video, 0, len(searchData.Items))
	for _, item := range searchData.Items {
		st, ok := statsByID[item.ID.VideoID]
		if !ok {
			continue
		}

		published := item.Snippet.PublishedAt
		if len(published) > 10 {
			published = published[:10]
		}

		videos = append(videos, models.Video{
			ID:        item.ID.VideoID,
			Title:     item.Snippet.Title,
			Channel:   item.Snippet.ChannelTitle,
			Published: published,
			URL:       "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Views:     st.views,
			Likes:     st.likes,
			Comments:  st.comments,
			Duration:  st.duration,
			IsShort:   models.IsShortDuration(ParseDuration(st.duration)),
		})
	}

	logger.Debug("fetched youtube videos",
		zap.String("query", query),
		zap.Int("count", len(videos)),
	)

	return videos, nil
}

func (s *Source) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
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

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 video duration (PT1H2M3S) to
// seconds. Malformed input yields 0.
func ParseDuration(duration string) int {
	m := durationRe.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}

	hours, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[3]))

	return hours*3600 + minutes*60 + seconds
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

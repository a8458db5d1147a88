package press

import (
	"testing"
	"time"

	"github.com/mediascope/visibility/pkg/models"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestMergeDeduplicatesAcrossSources(t *testing.T) {
	from, to := day(-7), day(0)

	lists := [][]models.Article{
		{
			{Title: "first", URL: "https://lemonde.fr/a?utm=x", Domain: "lemonde.fr", Date: day(-1), Source: "GDELT"},
		},
		{
			{Title: "duplicate", URL: "https://LeMonde.fr/a", Domain: "lemonde.fr", Date: day(-2), Source: "GoogleNews"},
			{Title: "second", URL: "https://lefigaro.fr/b", Domain: "lefigaro.fr", Date: day(-3), Source: "GoogleNews"},
		},
	}

	summary := Merge(lists, from, to)

	if summary.Count != 2 {
		t.Fatalf("expected 2 unique articles, got %d", summary.Count)
	}
	// First occurrence wins: the GDELT article keeps its title.
	if summary.Articles[0].Title != "first" {
		t.Errorf("expected source-order dedup, got %q", summary.Articles[0].Title)
	}
	if summary.Domains != 2 {
		t.Errorf("expected 2 domains, got %d", summary.Domains)
	}
}

func TestMergeFiltersWindowAndZeroDates(t *testing.T) {
	from, to := day(-7), day(0)

	lists := [][]models.Article{{
		{Title: "inside", URL: "https://a.fr/1", Domain: "a.fr", Date: day(-1)},
		{Title: "too old", URL: "https://a.fr/2", Domain: "a.fr", Date: day(-10)},
		{Title: "future", URL: "https://a.fr/3", Domain: "a.fr", Date: day(2)},
		{Title: "no date", URL: "https://a.fr/4", Domain: "a.fr"},
	}}

	summary := Merge(lists, from, to)

	if summary.Count != 1 {
		t.Fatalf("expected 1 article inside window, got %d", summary.Count)
	}
	if summary.Articles[0].Title != "inside" {
		t.Errorf("wrong article survived: %q", summary.Articles[0].Title)
	}
}

func TestMergeSortsAndBuildsBreakdown(t *testing.T) {
	from, to := day(-7), day(0)

	lists := [][]models.Article{{
		{Title: "old", URL: "https://a.fr/1", Domain: "a.fr", Date: day(-5)},
		{Title: "new", URL: "https://b.fr/1", Domain: "b.fr", Date: day(-1)},
		{Title: "mid", URL: "https://a.fr/2", Domain: "a.fr", Date: day(-3)},
	}}

	summary := Merge(lists, from, to)

	if summary.Articles[0].Title != "new" || summary.Articles[2].Title != "old" {
		t.Errorf("articles not sorted newest first: %+v", summary.Articles)
	}
	if summary.TopMedia != "a.fr" || summary.TopMediaCount != 2 {
		t.Errorf("expected top media a.fr(2), got %s(%d)", summary.TopMedia, summary.TopMediaCount)
	}
	if len(summary.MediaBreakdown) != 2 {
		t.Errorf("expected 2 breakdown rows, got %d", len(summary.MediaBreakdown))
	}
}

func TestMergeBreakdownCappedAtFive(t *testing.T) {
	from, to := day(-7), day(0)

	var list []models.Article
	domains := []string{"a.fr", "b.fr", "c.fr", "d.fr", "e.fr", "f.fr", "g.fr"}
	for i, d := range domains {
		list = append(list, models.Article{
			Title:  d,
			URL:    "https://" + d + "/x",
			Domain: d,
			Date:   day(-i % 6),
		})
	}

	summary := Merge([][]models.Article{list}, from, to)

	if summary.Domains != len(domains) {
		t.Errorf("expected %d domains, got %d", len(domains), summary.Domains)
	}
	if len(summary.MediaBreakdown) != 5 {
		t.Errorf("expected breakdown capped at 5, got %d", len(summary.MediaBreakdown))
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"strips query", "https://a.fr/path?utm_source=x&id=1", "https://a.fr/path"},
		{"lowercases", "https://A.FR/Path", "https://a.fr/path"},
		{"plain url unchanged", "https://a.fr/path", "https://a.fr/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.url); got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"strips www", "https://www.lemonde.fr/article", "lemonde.fr"},
		{"keeps subdomain", "https://actu.orange.fr/x", "actu.orange.fr"},
		{"unparseable", "://not-a-url", "unknown"},
		{"empty host", "/relative/path", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.url); got != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

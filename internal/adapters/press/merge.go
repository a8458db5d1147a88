package press

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mediascope/visibility/pkg/models"
)

// unknownDomain is the sentinel for articles whose URL cannot be
// parsed. Still countable in the histogram, never a crash.
const unknownDomain = "unknown"

// Merge combines article lists from independent providers into one
// deduplicated, window-filtered summary.
//
// Dedup key is the query-stripped, lower-cased URL; the first
// occurrence in list order wins. Window filtering happens after dedup
// because providers use heterogeneous recency semantics. Articles
// with a zero (unparseable) date are dropped rather than defaulted.
func Merge(lists [][]models.Article, from, to time.Time) models.PressSummary {
	seen := make(map[string]struct{})
	unique := make([]models.Article, 0)

	for _, list := range lists {
		for _, article := range list {
			key := NormalizeURL(article.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if article.Date.IsZero() {
				continue
			}
			if article.Date.Before(from) || article.Date.After(to) {
				continue
			}

			if article.Domain == "" {
				article.Domain = ExtractDomain(article.URL)
			}
			unique = append(unique, article)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Date.After(unique[j].Date)
	})

	domainCounts := make(map[string]int)
	for _, article := range unique {
		domainCounts[article.Domain]++
	}

	breakdown := make([]models.DomainCount, 0, len(domainCounts))
	for domain, count := range domainCounts {
		breakdown = append(breakdown, models.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Domain < breakdown[j].Domain
	})

	summary := models.PressSummary{
		Articles:       unique,
		Count:          len(unique),
		Domains:        len(domainCounts),
		MediaBreakdown: breakdown,
	}
	if len(breakdown) > 5 {
		summary.MediaBreakdown = breakdown[:5]
	}
	if len(breakdown) > 0 {
		summary.TopMedia = breakdown[0].Domain
		summary.TopMediaCount = breakdown[0].Count
	}

	return summary
}

// NormalizeURL strips the query string and lower-cases the URL. This
// is the article uniqueness key; it is per-query, not global.
func NormalizeURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}

// ExtractDomain derives the source domain from an article URL,
// stripping a leading "www.". Unparseable URLs yield the sentinel
// domain.
func ExtractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return unknownDomain
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

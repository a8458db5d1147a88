package chat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mediascope/visibility/pkg/models"
)

func snapshotWithPress(name string, articles int) models.SignalSnapshot {
	snap := models.SignalSnapshot{
		Entity: models.Entity{ID: strings.ToLower(name), Name: name},
		Days:   7,
	}
	for i := 0; i < articles; i++ {
		snap.Press.Articles = append(snap.Press.Articles, models.Article{
			Title:  fmt.Sprintf("%s headline %d", name, i),
			Domain: "lemonde.fr",
		})
	}
	snap.Press.Count = articles
	snap.Press.Domains = 1
	return snap
}

func TestBuildContextCapsHeadlines(t *testing.T) {
	digest := BuildContext(models.ScoreBoard{}, []models.SignalSnapshot{snapshotWithPress("Alice", 25)}, 7)

	if !strings.Contains(digest, "headline 9") {
		t.Error("tenth headline should be included")
	}
	if strings.Contains(digest, "headline 10") {
		t.Error("headlines beyond the cap should be omitted")
	}
}

func TestBuildContextOmitsFailedSignals(t *testing.T) {
	snap := snapshotWithPress("Alice", 2)
	snap.Wikipedia = models.PageviewsSummary{Views: 500, Error: "upstream down"}
	snap.Video = models.VideoSummary{Error: "quota exceeded"}

	digest := BuildContext(models.ScoreBoard{}, []models.SignalSnapshot{snap}, 7)

	if strings.Contains(digest, "Wikipedia:") {
		t.Error("failed wikipedia signal should be omitted")
	}
	if strings.Contains(digest, "Video:") {
		t.Error("failed video signal should be omitted")
	}
	if !strings.Contains(digest, "Press: 2 articles") {
		t.Error("healthy press signal should be present")
	}
}

func TestBuildContextOmitsEmptySignals(t *testing.T) {
	snap := models.SignalSnapshot{Entity: models.Entity{ID: "bob", Name: "Bob"}}

	digest := BuildContext(models.ScoreBoard{}, []models.SignalSnapshot{snap}, 7)

	for _, section := range []string{"Press:", "Wikipedia:", "Video:", "Search interest:"} {
		if strings.Contains(digest, section) {
			t.Errorf("zero signal section %q should be omitted", section)
		}
	}
	if !strings.Contains(digest, "## Bob") {
		t.Error("entity heading should always be present")
	}
}

func TestBuildContextRanking(t *testing.T) {
	board := models.ScoreBoard{
		Scores: []models.CompositeScore{
			{ID: "a", Name: "Alice", Total: 71.5},
			{ID: "b", Name: "Bob", Total: 12.3},
		},
	}

	digest := BuildContext(board, nil, 14)

	if !strings.Contains(digest, "1. Alice: 71.5") {
		t.Errorf("ranking line missing:\n%s", digest)
	}
	if !strings.Contains(digest, "last 14 days") {
		t.Error("window should be stated")
	}
}

package chat

import (
	"fmt"
	"strings"

	"github.com/mediascope/visibility/pkg/models"
)

// Per-entity headline cap inside the digest. Keeps the prompt small
// while still giving the model concrete coverage to quote.
const maxContextTitles = 10

// BuildContext renders a factual digest of the current scoreboard and
// raw signals. Sections for signals that failed or are absent are
// omitted entirely rather than rendered as zeros, so the model cannot
// mistake an outage for silence.
func BuildContext(board models.ScoreBoard, snapshots []models.SignalSnapshot, days int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Visibility data for the last %d days.\n\n", days)

	if len(board.Scores) > 0 {
		b.WriteString("Ranking (composite score out of 100):\n")
		for i, score := range board.Scores {
			fmt.Fprintf(&b, "%d. %s: %.1f (press %.1f, trends %.1f, wikipedia %.1f, video %.1f)\n",
				i+1, score.Name, score.Total,
				score.Breakdown.Press, score.Breakdown.Trends,
				score.Breakdown.Wikipedia, score.Breakdown.Video,
			)
		}
		b.WriteString("\n")
	}

	for _, snap := range snapshots {
		fmt.Fprintf(&b, "## %s\n", snap.Entity.Name)
		if snap.Entity.Role != "" {
			fmt.Fprintf(&b, "Role: %s\n", snap.Entity.Role)
		}
		if snap.Entity.Party != "" {
			fmt.Fprintf(&b, "Party: %s\n", snap.Entity.Party)
		}

		if snap.Press.Error == "" && snap.Press.Count > 0 {
			fmt.Fprintf(&b, "Press: %d articles across %d outlets", snap.Press.Count, snap.Press.Domains)
			if snap.Press.TopMedia != "" {
				fmt.Fprintf(&b, ", most covered by %s (%d)", snap.Press.TopMedia, snap.Press.TopMediaCount)
			}
			b.WriteString("\n")

			b.WriteString("Recent headlines:\n")
			for i, article := range snap.Press.Articles {
				if i == maxContextTitles {
					break
				}
				fmt.Fprintf(&b, "- %s (%s)\n", article.Title, article.Domain)
			}
		}

		if snap.Wikipedia.Error == "" && snap.Wikipedia.Views > 0 {
			fmt.Fprintf(&b, "Wikipedia: %d pageviews, %+.1f%% vs previous period\n",
				snap.Wikipedia.Views, snap.Wikipedia.Variation)
		}

		if snap.Video.Error == "" && len(snap.Video.Videos) > 0 {
			fmt.Fprintf(&b, "Video: %d videos, %d views (%d shorts, %d long-form)\n",
				len(snap.Video.Videos), snap.Video.TotalViews,
				snap.Video.ShortsCount, snap.Video.LongCount)
		}

		if snap.Trends > 0 {
			fmt.Fprintf(&b, "Search interest: %.0f/100\n", snap.Trends)
		}

		b.WriteString("\n")
	}

	return b.String()
}

package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Pick Sheet\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Leagues: %d | Picks: %d\n\n", r.LeagueCount, r.PickCount))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Games | %d |\n", r.DataSummary.TotalGames))
	sb.WriteString(fmt.Sprintf("| Total Picks | %d |\n", r.DataSummary.TotalPicks))
	sb.WriteString(fmt.Sprintf("| Slate Start (ms) | %d |\n", r.DataSummary.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Slate End (ms) | %d |\n", r.DataSummary.DateRangeEnd))
	sb.WriteString("\n")

	// Slate
	sb.WriteString("## Slate\n\n")
	if len(r.Picks) > 0 {
		sb.WriteString("| League | Date | Matchup | Market | Side | Score | Tier | Signals |\n")
		sb.WriteString("|--------|------|---------|--------|------|-------|------|--------|\n")
		for _, p := range r.Picks {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s @ %s | %s | %s | %d | %d | %d |\n",
				p.League, p.GameDate.Format("2006-01-02"),
				p.AwayTeam, p.HomeTeam,
				p.Market, p.Direction, p.Score, p.Tier, p.ActiveCount))
		}
	} else {
		sb.WriteString("No picks cleared the score floor.\n")
	}
	sb.WriteString("\n")

	// Tier Distribution
	sb.WriteString("## Tier Distribution\n\n")
	if len(r.TierDistribution) > 0 {
		sb.WriteString("| Tier | Picks |\n")
		sb.WriteString("|------|-------|\n")
		for _, t := range r.TierDistribution {
			sb.WriteString(fmt.Sprintf("| %d | %d |\n", t.Tier, t.Count))
		}
	} else {
		sb.WriteString("No tier data available.\n")
	}
	sb.WriteString("\n")

	// Ratings
	sb.WriteString("## Current Ratings\n\n")
	if len(r.Ratings) > 0 {
		sb.WriteString("| League | Team | Rating |\n")
		sb.WriteString("|--------|------|--------|\n")
		for _, row := range r.Ratings {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f |\n", row.League, row.Team, row.Rating))
		}
	} else {
		sb.WriteString("No ratings available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

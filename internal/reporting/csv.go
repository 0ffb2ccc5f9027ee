package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the slate rows as a CSV string.
func RenderCSV(picks []PickRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("league,game_date,home_team,away_team,market,direction,score,tier,active_signals\n")

	// Rows
	for _, p := range picks {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%d,%d,%d\n",
			p.League,
			p.GameDate.Format("2006-01-02"),
			p.HomeTeam,
			p.AwayTeam,
			p.Market,
			p.Direction,
			p.Score,
			p.Tier,
			p.ActiveCount,
		))
	}

	return sb.String()
}

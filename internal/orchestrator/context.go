package orchestrator

import (
	"context"
	"fmt"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/idhash"
)

// enrich fills the matchup context fields the stores can answer: ratings,
// posted lines, trend records, and rest days. Fields already set by the
// caller are left alone, and fields no store can answer stay nil; the
// provider contract turns those into neutral signals, not errors.
func (o *Orchestrator) enrich(ctx context.Context, m *domain.MatchupContext, rt *leagueRuntime) error {
	if err := o.fillRatings(ctx, m); err != nil {
		return err
	}
	if err := o.fillLines(ctx, m); err != nil {
		return err
	}
	if err := o.fillTrends(ctx, m, rt); err != nil {
		return err
	}
	return o.fillRest(ctx, m)
}

func (o *Orchestrator) fillRatings(ctx context.Context, m *domain.MatchupContext) error {
	if m.HomeElo == nil {
		r, err := o.ratingStore.CurrentRating(ctx, m.League, m.HomeTeam, m.GameDate)
		if err != nil {
			return fmt.Errorf("home rating: %w", err)
		}
		m.HomeElo = &r
	}
	if m.AwayElo == nil {
		r, err := o.ratingStore.CurrentRating(ctx, m.League, m.AwayTeam, m.GameDate)
		if err != nil {
			return fmt.Errorf("away rating: %w", err)
		}
		m.AwayElo = &r
	}
	return nil
}

func (o *Orchestrator) fillLines(ctx context.Context, m *domain.MatchupContext) error {
	if m.SpreadLine != nil && m.TotalLine != nil {
		return nil
	}

	gameID := idGameID(m)
	lines, err := o.lineStore.GetByGameID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("lines for %s: %w", gameID, err)
	}
	line := preferredLine(lines)
	if line == nil {
		return nil
	}
	if m.SpreadLine == nil {
		m.SpreadLine = line.Spread
	}
	if m.TotalLine == nil {
		m.TotalLine = line.Total
	}
	return nil
}

// preferredLine picks the line to score against: closing beats consensus
// beats whatever came first.
func preferredLine(lines []*domain.MarketLine) *domain.MarketLine {
	for _, source := range []string{"closing", "consensus"} {
		for _, l := range lines {
			if l.Source == source {
				return l
			}
		}
	}
	if len(lines) > 0 {
		return lines[0]
	}
	return nil
}

func (o *Orchestrator) fillTrends(ctx context.Context, m *domain.MatchupContext, rt *leagueRuntime) error {
	seasonYear := rt.policy.Season(m.GameDate)
	seasonStart := time.Date(seasonYear, rt.params.SeasonStartMonth, 1, 0, 0, 0, 0, time.UTC)
	// Results up to but not including matchup day.
	cutoff := m.GameDate.AddDate(0, 0, -1)

	if m.HomeATSSeason == nil || m.HomeATSRecent == nil || m.HomeOverUnder == nil {
		ats, ou, err := o.foldTeamRecords(ctx, m.League, m.HomeTeam, seasonStart, cutoff)
		if err != nil {
			return err
		}
		if m.HomeATSSeason == nil {
			m.HomeATSSeason = ats.full
		}
		if m.HomeATSRecent == nil {
			m.HomeATSRecent = ats.recent
		}
		if m.HomeOverUnder == nil {
			m.HomeOverUnder = ou
		}
	}

	if m.AwayATSSeason == nil || m.AwayATSRecent == nil || m.AwayOverUnder == nil {
		ats, ou, err := o.foldTeamRecords(ctx, m.League, m.AwayTeam, seasonStart, cutoff)
		if err != nil {
			return err
		}
		if m.AwayATSSeason == nil {
			m.AwayATSSeason = ats.full
		}
		if m.AwayATSRecent == nil {
			m.AwayATSRecent = ats.recent
		}
		if m.AwayOverUnder == nil {
			m.AwayOverUnder = ou
		}
	}

	if m.HeadToHeadATS == nil {
		rec, err := o.foldHeadToHead(ctx, m)
		if err != nil {
			return err
		}
		m.HeadToHeadATS = rec
	}
	return nil
}

type atsRecords struct {
	full   *domain.TrendRecord
	recent *domain.TrendRecord
}

// foldTeamRecords folds a team's season games into ATS and over/under
// records. The recent record covers the trailing recentWindow decided
// games of the same span.
func (o *Orchestrator) foldTeamRecords(ctx context.Context, league, team string, start, end time.Time) (atsRecords, *domain.TrendRecord, error) {
	if end.Before(start) {
		return atsRecords{full: &domain.TrendRecord{}, recent: &domain.TrendRecord{}}, &domain.TrendRecord{}, nil
	}

	games, err := o.gameStore.GetByTeam(ctx, league, team, start, end)
	if err != nil {
		return atsRecords{}, nil, fmt.Errorf("season games for %s: %w", team, err)
	}

	full := &domain.TrendRecord{}
	ou := &domain.TrendRecord{}
	var outcomes []int // +1 cover, -1 miss, 0 push, in date order

	for _, g := range games {
		line, err := o.gameLine(ctx, g.GameID)
		if err != nil {
			return atsRecords{}, nil, err
		}
		if line == nil {
			continue
		}

		if line.Spread != nil {
			switch c := atsOutcome(g, team, *line.Spread); {
			case c > 0:
				full.Wins++
				outcomes = append(outcomes, 1)
			case c < 0:
				full.Losses++
				outcomes = append(outcomes, -1)
			default:
				full.Pushes++
				outcomes = append(outcomes, 0)
			}
		}

		if line.Total != nil {
			switch points := float64(g.HomeScore + g.AwayScore); {
			case points > *line.Total:
				ou.Wins++
			case points < *line.Total:
				ou.Losses++
			default:
				ou.Pushes++
			}
		}
	}

	recent := &domain.TrendRecord{}
	decided := 0
	for i := len(outcomes) - 1; i >= 0 && decided < recentWindow; i-- {
		switch outcomes[i] {
		case 1:
			recent.Wins++
			decided++
		case -1:
			recent.Losses++
			decided++
		default:
			recent.Pushes++
		}
	}

	return atsRecords{full: full, recent: recent}, ou, nil
}

// foldHeadToHead folds prior meetings into an ATS record from the current
// home team's perspective.
func (o *Orchestrator) foldHeadToHead(ctx context.Context, m *domain.MatchupContext) (*domain.TrendRecord, error) {
	games, err := o.gameStore.GetHeadToHead(ctx, m.League, m.HomeTeam, m.AwayTeam)
	if err != nil {
		return nil, fmt.Errorf("head to head for %s/%s: %w", m.HomeTeam, m.AwayTeam, err)
	}

	rec := &domain.TrendRecord{}
	for _, g := range games {
		if !g.GameDate.Before(m.GameDate) {
			continue
		}
		line, err := o.gameLine(ctx, g.GameID)
		if err != nil {
			return nil, err
		}
		if line == nil || line.Spread == nil {
			continue
		}
		switch c := atsOutcome(g, m.HomeTeam, *line.Spread); {
		case c > 0:
			rec.Wins++
		case c < 0:
			rec.Losses++
		default:
			rec.Pushes++
		}
	}
	return rec, nil
}

func (o *Orchestrator) gameLine(ctx context.Context, gameID string) (*domain.MarketLine, error) {
	lines, err := o.lineStore.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("lines for %s: %w", gameID, err)
	}
	return preferredLine(lines), nil
}

// atsOutcome reports whether team covered the posted spread in g:
// +1 cover, -1 miss, 0 push. The spread is home-perspective.
func atsOutcome(g *domain.Game, team string, spread float64) int {
	adjusted := float64(g.Margin()) + spread // >0 means the home side covered
	if team != g.HomeTeam {
		adjusted = -adjusted
	}
	switch {
	case adjusted > 0:
		return 1
	case adjusted < 0:
		return -1
	default:
		return 0
	}
}

// fillRest derives rest days from each team's most recent game inside a
// trailing window. Openers keep nil rest: no prior game, no rest signal.
func (o *Orchestrator) fillRest(ctx context.Context, m *domain.MatchupContext) error {
	const lookbackDays = 30

	if m.HomeRestDays == nil {
		rest, err := o.restDays(ctx, m.League, m.HomeTeam, m.GameDate, lookbackDays)
		if err != nil {
			return err
		}
		m.HomeRestDays = rest
	}
	if m.AwayRestDays == nil {
		rest, err := o.restDays(ctx, m.League, m.AwayTeam, m.GameDate, lookbackDays)
		if err != nil {
			return err
		}
		m.AwayRestDays = rest
	}
	return nil
}

func (o *Orchestrator) restDays(ctx context.Context, league, team string, gameDate time.Time, lookbackDays int) (*int, error) {
	start := gameDate.AddDate(0, 0, -lookbackDays)
	end := gameDate.AddDate(0, 0, -1)

	games, err := o.gameStore.GetByTeam(ctx, league, team, start, end)
	if err != nil {
		return nil, fmt.Errorf("rest lookup for %s: %w", team, err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	last := games[len(games)-1].GameDate
	rest := int(gameDate.Sub(last).Hours() / 24)
	return &rest, nil
}

func idGameID(m *domain.MatchupContext) string {
	return idhash.ComputeGameID(m.League, m.GameDate, m.HomeTeam, m.AwayTeam)
}

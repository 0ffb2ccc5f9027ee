// Package orchestrator wires the stores, rating engine, signal providers,
// and convergence scorer into the two top-level operations: rating
// recomputes and matchup/slate evaluation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"matchup-lab/internal/convergence"
	"matchup-lab/internal/domain"
	"matchup-lab/internal/idhash"
	"matchup-lab/internal/observability"
	"matchup-lab/internal/rating"
	"matchup-lab/internal/season"
	"matchup-lab/internal/signal"
	"matchup-lab/internal/storage"
)

// ErrUnknownLeague is returned for operations on a league the orchestrator
// was not configured with.
var ErrUnknownLeague = errors.New("orchestrator: unknown league")

// recentWindow is the game count behind "recent" trend records.
const recentWindow = 5

type leagueRuntime struct {
	params    domain.LeagueParams
	policy    season.Policy
	engine    *rating.Engine
	providers []signal.Provider
}

// Orchestrator coordinates recomputes and evaluations.
type Orchestrator struct {
	gameStore   storage.GameStore
	lineStore   storage.LineStore
	ratingStore storage.RatingStore
	pickStore   storage.PickStore
	history     storage.RatingHistoryStore // optional archive mirror

	leagues map[string]*leagueRuntime

	weights    map[string]float64
	convParams convergence.Params
	minActive  int
	allowBonus bool

	metrics *observability.Metrics
	verbose bool
}

// Options for creating an Orchestrator.
type Options struct {
	// Required stores
	GameStore   storage.GameStore
	LineStore   storage.LineStore
	RatingStore storage.RatingStore
	PickStore   storage.PickStore

	// Optional rating history archive; nil disables mirroring.
	RatingHistoryStore storage.RatingHistoryStore

	// League parameters and per-league provider rosters.
	Leagues   map[string]domain.LeagueParams
	Providers map[string][]domain.ProviderConfig

	// Convergence configuration.
	Weights             map[string]float64
	ConvergenceParams   convergence.Params
	MinActiveSignals    int
	AllowAgreementBonus bool

	// Optional metrics sink; nil disables instrumentation.
	Metrics *observability.Metrics

	Verbose bool
}

// New creates a new Orchestrator. Provider rosters are validated up front:
// a malformed provider config fails construction, not evaluation.
func New(opts Options) (*Orchestrator, error) {
	if opts.GameStore == nil || opts.LineStore == nil || opts.RatingStore == nil || opts.PickStore == nil {
		return nil, errors.New("orchestrator: all core stores are required")
	}
	if len(opts.Leagues) == 0 {
		return nil, errors.New("orchestrator: at least one league is required")
	}

	leagues := make(map[string]*leagueRuntime, len(opts.Leagues))
	for league, params := range opts.Leagues {
		policy := season.ForMonth(params.SeasonStartMonth)
		providers, err := signal.FromConfigs(opts.Providers[league], params)
		if err != nil {
			return nil, fmt.Errorf("build providers for %s: %w", league, err)
		}
		leagues[league] = &leagueRuntime{
			params:    params,
			policy:    policy,
			engine:    rating.NewEngine(params, policy),
			providers: providers,
		}
	}

	minActive := opts.MinActiveSignals
	if minActive < 1 {
		minActive = 1
	}

	return &Orchestrator{
		gameStore:   opts.GameStore,
		lineStore:   opts.LineStore,
		ratingStore: opts.RatingStore,
		pickStore:   opts.PickStore,
		history:     opts.RatingHistoryStore,
		leagues:     leagues,
		weights:     opts.Weights,
		convParams:  opts.ConvergenceParams,
		minActive:   minActive,
		allowBonus:  opts.AllowAgreementBonus,
		metrics:     opts.Metrics,
		verbose:     opts.Verbose,
	}, nil
}

// RecomputeRatings folds a league's full game history into rating
// snapshots and publishes them atomically. A failure anywhere leaves the
// previously published set authoritative.
func (o *Orchestrator) RecomputeRatings(ctx context.Context, league string) error {
	rt, ok := o.leagues[league]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLeague, league)
	}

	start := time.Now()
	err := o.recompute(ctx, league, rt)
	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.RecomputeRunsTotal.WithLabelValues(league, status).Inc()
		o.metrics.RecomputeDuration.WithLabelValues(league).Observe(time.Since(start).Seconds())
		if err == nil {
			o.metrics.LastSuccessfulRecompute.SetToCurrentTime()
		}
	}
	return err
}

func (o *Orchestrator) recompute(ctx context.Context, league string, rt *leagueRuntime) error {
	loadStart := time.Now()
	games, err := o.gameStore.GetByLeagueOrdered(ctx, league)
	o.observeDB("load_games", loadStart, err)
	if err != nil {
		return fmt.Errorf("load %s games: %w", league, err)
	}
	o.log("recompute %s: folding %d games", league, len(games))

	snapshots, err := rt.engine.Fold(games)
	if err != nil {
		return fmt.Errorf("fold %s ratings: %w", league, err)
	}

	publishStart := time.Now()
	err = o.ratingStore.ReplaceLeague(ctx, league, snapshots)
	o.observeDB("publish_ratings", publishStart, err)
	if err != nil {
		return fmt.Errorf("publish %s ratings: %w", league, err)
	}

	if o.history != nil {
		version := time.Now().UnixMilli()
		if err := o.history.AppendVersion(ctx, league, version, snapshots); err != nil {
			// The authoritative set is already published; an archive miss
			// costs longitudinal data, not correctness.
			o.log("recompute %s: archive append failed: %v", league, err)
		}
	}

	if o.metrics != nil {
		o.metrics.GamesFolded.WithLabelValues(league).Add(float64(len(games)))
		o.metrics.SnapshotsPublished.WithLabelValues(league).Set(float64(len(snapshots)))
	}
	o.log("recompute %s: published %d snapshots", league, len(snapshots))
	return nil
}

// RecomputeAll recomputes every configured league concurrently. Leagues
// share no mutable state; one league's failure fails the whole call but
// cannot corrupt another league's published set.
func (o *Orchestrator) RecomputeAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for league := range o.leagues {
		g.Go(func() error {
			return o.RecomputeRatings(ctx, league)
		})
	}
	return g.Wait()
}

// EvaluateMatchup assembles the full context for one matchup, runs the
// league's providers, and converges per market. Returned picks are also
// persisted; re-evaluating the same matchup is idempotent.
func (o *Orchestrator) EvaluateMatchup(ctx context.Context, m *domain.MatchupContext) ([]*domain.Pick, error) {
	rt, ok := o.leagues[m.League]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeague, m.League)
	}

	if err := o.enrich(ctx, m, rt); err != nil {
		return nil, fmt.Errorf("assemble matchup context: %w", err)
	}

	byMarket := make(map[domain.Market][]domain.SignalResult)
	for _, p := range rt.providers {
		sig := p.Evaluate(m)
		byMarket[sig.Market] = append(byMarket[sig.Market], sig)
		if o.metrics != nil {
			o.metrics.SignalsEvaluated.WithLabelValues(sig.Category).Inc()
		}
	}

	gameID := idhash.ComputeGameID(m.League, m.GameDate, m.HomeTeam, m.AwayTeam)

	var picks []*domain.Pick
	for _, market := range []domain.Market{domain.MarketSpread, domain.MarketTotal} {
		signals, ok := byMarket[market]
		if !ok {
			continue
		}
		result := convergence.Score(signals, o.weights, o.minActive, o.allowBonus, o.convParams)
		if result == nil {
			continue
		}
		if o.metrics != nil {
			o.metrics.ActiveSignals.WithLabelValues(string(market)).Observe(float64(result.ActiveCount))
		}
		picks = append(picks, &domain.Pick{
			PickID:      idhash.ComputePickID(gameID, market, result.Direction),
			League:      m.League,
			GameDate:    m.GameDate,
			HomeTeam:    m.HomeTeam,
			AwayTeam:    m.AwayTeam,
			Market:      market,
			Direction:   result.Direction,
			Score:       result.Score,
			Tier:        result.Tier,
			ActiveCount: result.ActiveCount,
			CreatedAt:   time.Now().UnixMilli(),
		})
	}

	if o.metrics != nil {
		o.metrics.MatchupsEvaluated.WithLabelValues(m.League).Inc()
		for _, p := range picks {
			o.metrics.PicksProduced.WithLabelValues(p.League, string(p.Market)).Inc()
			o.metrics.PickScore.WithLabelValues(p.League).Observe(float64(p.Score))
		}
	}

	if err := o.persistPicks(ctx, picks); err != nil {
		return nil, err
	}
	return picks, nil
}

// EvaluateSlate evaluates matchups concurrently and returns all picks in
// a deterministic order.
func (o *Orchestrator) EvaluateSlate(ctx context.Context, matchups []*domain.MatchupContext) ([]*domain.Pick, error) {
	var mu sync.Mutex
	var picks []*domain.Pick

	g, ctx := errgroup.WithContext(ctx)
	for _, m := range matchups {
		g.Go(func() error {
			got, err := o.EvaluateMatchup(ctx, m)
			if err != nil {
				return err
			}
			mu.Lock()
			picks = append(picks, got...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(picks, func(i, j int) bool {
		if !picks[i].GameDate.Equal(picks[j].GameDate) {
			return picks[i].GameDate.Before(picks[j].GameDate)
		}
		return picks[i].PickID < picks[j].PickID
	})

	if o.metrics != nil && len(matchups) > 0 {
		o.metrics.LastSuccessfulSlate.SetToCurrentTime()
	}
	return picks, nil
}

// persistPicks stores picks, treating re-runs as no-ops.
func (o *Orchestrator) persistPicks(ctx context.Context, picks []*domain.Pick) error {
	for _, p := range picks {
		start := time.Now()
		err := o.pickStore.Insert(ctx, p)
		if errors.Is(err, storage.ErrDuplicateKey) {
			err = nil
		}
		o.observeDB("persist_pick", start, err)
		if err != nil {
			return fmt.Errorf("persist pick %s: %w", p.PickID, err)
		}
	}
	return nil
}

// observeDB records a store call's duration and failure, when metrics are on.
func (o *Orchestrator) observeDB(op string, start time.Time, err error) {
	if o.metrics == nil {
		return
	}
	o.metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		o.metrics.DBQueryErrors.WithLabelValues(op).Inc()
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}

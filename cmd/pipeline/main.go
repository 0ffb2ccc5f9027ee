// Package main provides the fixture-driven E2E entry point.
// Executes: load fixtures → recompute ratings → evaluate slate → pick sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"matchup-lab/internal/config"
	"matchup-lab/internal/domain"
	"matchup-lab/internal/orchestrator"
	"matchup-lab/internal/pipeline"
	"matchup-lab/internal/reporting"
	"matchup-lab/internal/storage/memory"
)

func main() {
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	games := memory.NewGameStore()
	lines := memory.NewLineStore()
	ratings := memory.NewRatingStore()
	picks := memory.NewPickStore()

	if err := pipeline.LoadFixtures(ctx, games, lines); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	cfg := config.New()
	leagues := make(map[string]domain.LeagueParams)
	providers := make(map[string][]domain.ProviderConfig)
	for _, league := range pipeline.FixtureLeagues() {
		leagues[league] = cfg.Leagues[league].Params(league)
		providers[league] = config.DefaultProviders(league)
	}

	fmt.Println("=== Matchup Pipeline ===")
	orch, err := orchestrator.New(orchestrator.Options{
		GameStore:           games,
		LineStore:           lines,
		RatingStore:         ratings,
		PickStore:           picks,
		Leagues:             leagues,
		Providers:           providers,
		Weights:             cfg.Weights,
		ConvergenceParams:   cfg.Convergence.Params(),
		MinActiveSignals:    cfg.Convergence.MinActiveSignals,
		AllowAgreementBonus: cfg.Convergence.AllowAgreementBonus,
		Verbose:             *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator(games, picks, ratings)
	runner := pipeline.NewRunner(orch, gen, pipeline.FixtureLeagues(), *outputDir)

	report, err := runner.Run(ctx, pipeline.UpcomingSlate())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Leagues: %d\n", report.LeagueCount)
	fmt.Printf("  Games:   %d\n", report.DataSummary.TotalGames)
	fmt.Printf("  Picks:   %d\n", report.PickCount)
	for _, t := range report.TierDistribution {
		fmt.Printf("    tier %d: %d\n", t.Tier, t.Count)
	}
	fmt.Printf("\nOutput files written to %s/:\n", *outputDir)
	fmt.Printf("  - %s\n", pipeline.PickSheetFile)
	fmt.Printf("  - %s\n", pipeline.PicksCSVFile)
}

// Package main regenerates pick sheet artifacts from stored data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"matchup-lab/internal/config"
	"matchup-lab/internal/reporting"
	"matchup-lab/internal/storage/migrations"
	pgstore "matchup-lab/internal/storage/postgres"
)

func main() {
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	leaguesFlag := flag.String("leagues", "", "Comma-separated league codes (default: all configured)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "MATCHUP_POSTGRES_DSN is required: reports are regenerated from stored picks")
		os.Exit(1)
	}

	leagues := resolveLeagues(*leaguesFlag, cfg)
	if len(leagues) == 0 {
		fmt.Fprintln(os.Stderr, "No leagues to report on")
		os.Exit(1)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator(
		pgstore.NewGameStore(pool),
		pgstore.NewPickStore(pool),
		pgstore.NewRatingStore(pool),
	)

	report, err := gen.Generate(ctx, leagues)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(*outputDir, "PICK_SHEET.md"), []byte(md), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing pick sheet: %v\n", err)
		os.Exit(1)
	}

	csv := reporting.RenderCSV(report.Picks)
	if err := os.WriteFile(filepath.Join(*outputDir, "picks.csv"), []byte(csv), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing csv: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report generated: %d picks across %d leagues\n", report.PickCount, report.LeagueCount)
	fmt.Printf("Output written to %s/\n", *outputDir)
}

// resolveLeagues picks the leagues to cover: explicit flag values when
// given, otherwise every configured league.
func resolveLeagues(flagValue string, cfg *config.Config) []string {
	if flagValue == "" {
		leagues := make([]string, 0, len(cfg.Leagues))
		for league := range cfg.Leagues {
			leagues = append(leagues, league)
		}
		return leagues
	}

	var leagues []string
	for _, l := range strings.Split(flagValue, ",") {
		l = strings.TrimSpace(strings.ToUpper(l))
		if l != "" {
			leagues = append(leagues, l)
		}
	}
	return leagues
}

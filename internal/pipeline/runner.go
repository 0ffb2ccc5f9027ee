package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"matchup-lab/internal/domain"
	"matchup-lab/internal/orchestrator"
	"matchup-lab/internal/reporting"
)

// Output file names written by a run.
const (
	PickSheetFile = "PICK_SHEET.md"
	PicksCSVFile  = "picks.csv"
)

// Runner executes a full recompute-and-evaluate cycle and writes the
// pick sheet artifacts.
type Runner struct {
	orch      *orchestrator.Orchestrator
	reportGen *reporting.Generator
	leagues   []string
	outputDir string
	clock     func() time.Time
}

// NewRunner creates a runner over an orchestrator and report generator.
func NewRunner(orch *orchestrator.Orchestrator, gen *reporting.Generator, leagues []string, outputDir string) *Runner {
	return &Runner{
		orch:      orch,
		reportGen: gen,
		leagues:   leagues,
		outputDir: outputDir,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	r.reportGen = r.reportGen.WithClock(clock)
	return r
}

// Run recomputes every league's ratings, evaluates the slate, and
// writes PICK_SHEET.md and picks.csv to the output directory.
func (r *Runner) Run(ctx context.Context, slate []*domain.MatchupContext) (*reporting.Report, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, err
	}

	if err := r.orch.RecomputeAll(ctx); err != nil {
		return nil, fmt.Errorf("recompute ratings: %w", err)
	}

	if _, err := r.orch.EvaluateSlate(ctx, slate); err != nil {
		return nil, fmt.Errorf("evaluate slate: %w", err)
	}

	report, err := r.reportGen.Generate(ctx, r.leagues)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	if err := r.writeArtifacts(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) writeArtifacts(report *reporting.Report) error {
	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(r.outputDir, PickSheetFile), []byte(md), 0644); err != nil {
		return fmt.Errorf("write %s: %w", PickSheetFile, err)
	}

	csv := reporting.RenderCSV(report.Picks)
	if err := os.WriteFile(filepath.Join(r.outputDir, PicksCSVFile), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write %s: %w", PicksCSVFile, err)
	}
	return nil
}

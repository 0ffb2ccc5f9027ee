// Package main provides the long-running service:
// - Rating recompute (scheduled): ordered fold → atomic publish → archive
// - Slate evaluation (on demand): POST /evaluate
// - Reporting (after each recompute): PICK_SHEET.md, picks.csv
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"matchup-lab/internal/config"
	"matchup-lab/internal/domain"
	"matchup-lab/internal/observability"
	"matchup-lab/internal/orchestrator"
	"matchup-lab/internal/reporting"
	"matchup-lab/internal/storage"
	chstore "matchup-lab/internal/storage/clickhouse"
	"matchup-lab/internal/storage/memory"
	"matchup-lab/internal/storage/migrations"
	pgstore "matchup-lab/internal/storage/postgres"
)

// Server holds all components of the service.
type Server struct {
	cfg       *config.Config
	orch      *orchestrator.Orchestrator
	reportGen *reporting.Generator
	leagues   []string
	logger    *log.Logger

	// State
	mu               sync.Mutex
	started          time.Time
	lastRecompute    time.Time
	recomputeRunning bool
	recomputeRuns    int
	slatesEvaluated  int
}

// serverStores holds the storage implementations behind the orchestrator.
type serverStores struct {
	games   storage.GameStore
	lines   storage.LineStore
	ratings storage.RatingStore
	picks   storage.PickStore
	history storage.RatingHistoryStore // nil when archiving is disabled
}

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	leagues := make(map[string]domain.LeagueParams)
	providers := make(map[string][]domain.ProviderConfig)
	leagueNames := make([]string, 0, len(cfg.Leagues))
	for league, lc := range cfg.Leagues {
		leagues[league] = lc.Params(league)
		providers[league] = config.DefaultProviders(league)
		leagueNames = append(leagueNames, league)
	}

	orch, err := orchestrator.New(orchestrator.Options{
		GameStore:           stores.games,
		LineStore:           stores.lines,
		RatingStore:         stores.ratings,
		PickStore:           stores.picks,
		RatingHistoryStore:  stores.history,
		Leagues:             leagues,
		Providers:           providers,
		Weights:             cfg.Weights,
		ConvergenceParams:   cfg.Convergence.Params(),
		MinActiveSignals:    cfg.Convergence.MinActiveSignals,
		AllowAgreementBonus: cfg.Convergence.AllowAgreementBonus,
		Metrics:             observability.DefaultMetrics,
		Verbose:             true,
	})
	if err != nil {
		logger.Fatalf("Failed to create orchestrator: %v", err)
	}

	server := &Server{
		cfg:       cfg,
		orch:      orch,
		reportGen: reporting.NewGenerator(stores.games, stores.picks, stores.ratings),
		leagues:   leagueNames,
		logger:    logger,
		started:   time.Now(),
	}

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	go server.startHTTPServer(cfg.Addr)

	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates the storage backends. An empty PostgresDSN selects
// in-memory stores; an empty ClickhouseDSN disables rating archiving.
func createStores(ctx context.Context, cfg *config.Config) (*serverStores, func(), error) {
	if cfg.PostgresDSN == "" {
		stores := &serverStores{
			games:   memory.NewGameStore(),
			lines:   memory.NewLineStore(),
			ratings: memory.NewRatingStore(),
			picks:   memory.NewPickStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &serverStores{
		games:   pgstore.NewGameStore(pool),
		lines:   pgstore.NewLineStore(pool),
		ratings: pgstore.NewRatingStore(pool),
		picks:   pgstore.NewPickStore(pool),
	}
	cleanup := func() { pool.Close() }

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.history = chstore.NewRatingHistoryStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return stores, cleanup, nil
}

// Run starts the recompute scheduler and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.RecomputeIntervalMinutes) * time.Minute
	s.logger.Printf("Starting recompute scheduler (interval: %v)...", interval)

	// Run immediately on start
	s.runRecompute(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runRecompute(ctx)
		}
	}
}

// runRecompute refreshes every league's ratings and regenerates reports.
func (s *Server) runRecompute(ctx context.Context) {
	s.mu.Lock()
	if s.recomputeRunning {
		s.mu.Unlock()
		s.logger.Println("Recompute already running, skipping...")
		return
	}
	s.recomputeRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.recomputeRunning = false
		s.lastRecompute = time.Now()
		s.recomputeRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Recomputing ratings...")
	start := time.Now()

	if err := s.orch.RecomputeAll(ctx); err != nil {
		s.logger.Printf("Recompute error: %v", err)
		return
	}
	s.logger.Printf("Recompute completed in %v", time.Since(start))

	if err := s.writeReports(ctx); err != nil {
		s.logger.Printf("Report error: %v", err)
	}
}

// writeReports regenerates the pick sheet artifacts from stored data.
func (s *Server) writeReports(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.ReportDir, 0755); err != nil {
		return err
	}

	report, err := s.reportGen.Generate(ctx, s.leagues)
	if err != nil {
		return err
	}

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(s.cfg.ReportDir+"/PICK_SHEET.md", []byte(md), 0644); err != nil {
		return err
	}
	csv := reporting.RenderCSV(report.Picks)
	return os.WriteFile(s.cfg.ReportDir+"/picks.csv", []byte(csv), 0644)
}

// startHTTPServer starts the HTTP server for health/metrics/status/evaluate.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/evaluate", s.handleEvaluate)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status           string    `json:"status"`
	Uptime           string    `json:"uptime"`
	LastRecompute    time.Time `json:"last_recompute,omitempty"`
	RecomputeRuns    int       `json:"recompute_runs"`
	RecomputeRunning bool      `json:"recompute_running"`
	SlatesEvaluated  int       `json:"slates_evaluated"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:           "running",
		Uptime:           time.Since(s.started).String(),
		LastRecompute:    s.lastRecompute,
		RecomputeRuns:    s.recomputeRuns,
		RecomputeRunning: s.recomputeRunning,
		SlatesEvaluated:  s.slatesEvaluated,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// EvaluateRequest is the JSON body for POST /evaluate.
type EvaluateRequest struct {
	Matchups []*domain.MatchupContext `json:"matchups"`
}

// EvaluateResponse returns the picks a slate produced.
type EvaluateResponse struct {
	Picks []*domain.Pick `json:"picks"`
}

// handleEvaluate runs a posted slate through the configured providers and
// returns (and persists) the resulting picks.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Matchups) == 0 {
		http.Error(w, "no matchups supplied", http.StatusBadRequest)
		return
	}

	picks, err := s.orch.EvaluateSlate(r.Context(), req.Matchups)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.slatesEvaluated++
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EvaluateResponse{Picks: picks})
}

// Package main provides the long-running assessment service:
// - Intake (HTTP): newly discovered tokens queued for assessment
// - Pipeline (scheduled): load references → classify → persist → archive
// - Reporting (scheduled): ASSESSMENT_REPORT.md and CSV export
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/observability"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/orchestrator"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/reporting"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
	chstore "github.com/On-Analytics/ERC20-Token-Listener/internal/storage/clickhouse"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage/memory"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage/migrations"
	pgstore "github.com/On-Analytics/ERC20-Token-Listener/internal/storage/postgres"
)

// Server holds all components of the assessment service.
type Server struct {
	// Configuration
	pipelineInterval time.Duration
	batchLimit       int
	outputDir        string

	// Stores
	stores *allStores

	// Components
	metrics *observability.Metrics
	logger  *log.Logger

	// State
	mu              sync.Mutex
	lastPipelineRun time.Time
	pipelineRunning bool
	startedAt       time.Time

	// Stats
	pipelineRuns   int
	tokensQueued   int
	tokensAssessed int
}

// allStores holds all storage implementations.
type allStores struct {
	referenceStore  storage.ReferenceStore
	pendingStore    storage.PendingTokenStore
	assessmentStore storage.AssessmentStore
	archiveStore    storage.AssessmentArchiveStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	pipelineInterval := flag.Duration("pipeline-interval", 10*time.Minute, "Pipeline run interval")
	batchLimit := flag.Int("batch-limit", 0, "Max pending tokens per run (0 = all)")
	outputDir := flag.String("output-dir", "reports", "Output directory for reports")
	httpAddr := flag.String("http-addr", ":8080", "HTTP listen address (intake, health, metrics)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		pipelineInterval: *pipelineInterval,
		batchLimit:       *batchLimit,
		outputDir:        *outputDir,
		stores:           stores,
		metrics:          observability.NewMetrics(""),
		logger:           logger,
		startedAt:        time.Now(),
	}

	// Handle shutdown signals
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

	go server.startHTTPServer(ctx, *httpAddr)

	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			referenceStore:  memory.NewReferenceStore(nil, nil),
			pendingStore:    memory.NewPendingTokenStore(),
			assessmentStore: memory.NewAssessmentStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &allStores{
		referenceStore:  pgstore.NewReferenceStore(pool),
		pendingStore:    pgstore.NewPendingTokenStore(pool),
		assessmentStore: pgstore.NewAssessmentStore(pool),
	}

	if clickhouseDSN == "" {
		return stores, func() { pool.Close() }, nil
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}
	stores.archiveStore = chstore.NewAssessmentArchiveStore(chConn)

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// Run starts the pipeline scheduler and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Printf("Starting pipeline scheduler (interval: %v)...", s.pipelineInterval)

	// Run immediately on start
	s.runPipeline(ctx)

	ticker := time.NewTicker(s.pipelineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

// runPipeline executes one assessment pass and refreshes reports.
func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.pipelineRunning {
		s.mu.Unlock()
		s.logger.Println("Pipeline already running, skipping...")
		return
	}
	s.pipelineRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pipelineRunning = false
		s.lastPipelineRun = time.Now()
		s.pipelineRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running assessment pipeline...")
	start := time.Now()

	orch := orchestrator.New(orchestrator.Options{
		ReferenceStore:  s.stores.referenceStore,
		PendingStore:    s.stores.pendingStore,
		AssessmentStore: s.stores.assessmentStore,
		ArchiveStore:    s.stores.archiveStore,
		Metrics:         s.metrics,
		BatchLimit:      s.batchLimit,
		Verbose:         true,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		return
	}

	s.mu.Lock()
	s.tokensAssessed += result.TokensAssessed
	s.mu.Unlock()

	s.logger.Printf("Pipeline completed in %v: %d assessed, %d persisted, %d errors",
		time.Since(start), result.TokensAssessed, result.TokensPersisted, len(result.Errors))
	for _, e := range result.Errors {
		s.logger.Printf("  pipeline error: %s", e)
	}

	if result.TokensAssessed > 0 {
		s.writeReports(result)
	}
}

// writeReports refreshes the markdown report and CSV export.
func (s *Server) writeReports(result *orchestrator.RunResult) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.logger.Printf("Failed to create output directory: %v", err)
		return
	}

	report := reporting.NewGenerator().Generate(result.Assessed)

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(s.outputDir, "ASSESSMENT_REPORT.md"), []byte(md), 0644); err != nil {
		s.logger.Printf("Failed to write markdown report: %v", err)
		return
	}

	csv := reporting.RenderCSV(result.Assessed)
	if err := os.WriteFile(filepath.Join(s.outputDir, "assessed_tokens.csv"), []byte(csv), 0644); err != nil {
		s.logger.Printf("Failed to write csv export: %v", err)
		return
	}

	s.logger.Printf("Reports written to %s/", s.outputDir)
}

// startHTTPServer starts the HTTP server for intake/health/metrics/status.
func (s *Server) startHTTPServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Token intake and status
	mux.HandleFunc("/tokens", s.handleTokenIntake)
	mux.HandleFunc("/status", s.handleStatus)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// handleTokenIntake queues listener-discovered tokens for the next pass.
func (s *Server) handleTokenIntake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var token domain.TokenRecord
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
		http.Error(w, fmt.Sprintf("invalid token record: %v", err), http.StatusBadRequest)
		return
	}

	err := s.stores.pendingStore.Insert(r.Context(), &token)
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		http.Error(w, "contract_address is required", http.StatusBadRequest)
		return
	case errors.Is(err, storage.ErrDuplicateKey):
		w.WriteHeader(http.StatusConflict)
		return
	case err != nil:
		s.logger.Printf("Token intake error: %v", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.tokensQueued++
	s.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string    `json:"status"`
	Uptime          string    `json:"uptime"`
	LastPipelineRun time.Time `json:"last_pipeline_run,omitempty"`
	PipelineRuns    int       `json:"pipeline_runs"`
	PipelineRunning bool      `json:"pipeline_running"`
	TokensQueued    int       `json:"tokens_queued"`
	TokensAssessed  int       `json:"tokens_assessed"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.startedAt).String(),
		LastPipelineRun: s.lastPipelineRun,
		PipelineRuns:    s.pipelineRuns,
		PipelineRunning: s.pipelineRunning,
		TokensQueued:    s.tokensQueued,
		TokensAssessed:  s.tokensAssessed,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// Package main provides the one-shot assessment pipeline entry point.
// Executes: load references → classify pending tokens → persist → archive → report
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/orchestrator"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/reporting"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
	chstore "github.com/On-Analytics/ERC20-Token-Listener/internal/storage/clickhouse"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage/memory"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage/migrations"
	pgstore "github.com/On-Analytics/ERC20-Token-Listener/internal/storage/postgres"
)

func main() {
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	tokensJSON := flag.String("tokens-json", "", "JSON file of token records to queue (memory mode)")
	safeJSON := flag.String("safe-json", "", "JSON file of safe reference pairs (memory mode)")
	fakeJSON := flag.String("fake-json", "", "JSON file of fake directory pairs (memory mode)")
	batchLimit := flag.Int("batch-limit", 0, "Max pending tokens per run (0 = all)")
	reportDir := flag.String("report-dir", "reports", "Output directory for generated reports")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "--postgres-dsn is required (use --use-memory for in-memory storage)")
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	seed := memorySeed{tokensPath: *tokensJSON, safePath: *safeJSON, fakePath: *fakeJSON}
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println("=== Fraud Assessment Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: stores.assessmentStore,
		ArchiveStore:    stores.archiveStore,
		BatchLimit:      *batchLimit,
		Verbose:         *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Assessed:  %d\n", result.TokensAssessed)
	fmt.Printf("  Persisted: %d\n", result.TokensPersisted)
	for _, row := range fraudTypeRows(result) {
		fmt.Printf("    %-12s %d\n", row.label+":", row.count)
	}
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	if result.TokensAssessed == 0 {
		fmt.Println("Nothing to report.")
		return
	}

	// Reporting
	if err := writeReports(*reportDir, result); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nReports written:\n")
	fmt.Printf("  - %s/ASSESSMENT_REPORT.md\n", *reportDir)
	fmt.Printf("  - %s/assessed_tokens.csv\n", *reportDir)
}

type countRow struct {
	label string
	count int
}

// fraudTypeRows flattens the count map in ladder order for printing.
func fraudTypeRows(result *orchestrator.RunResult) []countRow {
	order := []domain.FraudType{
		domain.FraudPhishing,
		domain.FraudRepeatScam,
		domain.FraudCounterfeit,
		domain.FraudSuspicious,
		domain.FraudLegit,
		domain.FraudUnknown,
	}
	var rows []countRow
	for _, ft := range order {
		if n := result.CountsByType[ft]; n > 0 {
			rows = append(rows, countRow{label: string(ft), count: n})
		}
	}
	return rows
}

func writeReports(dir string, result *orchestrator.RunResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	report := reporting.NewGenerator().Generate(result.Assessed)

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(dir, "ASSESSMENT_REPORT.md"), []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}

	csv := reporting.RenderCSV(result.Assessed)
	if err := os.WriteFile(filepath.Join(dir, "assessed_tokens.csv"), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}

	return nil
}

// allStores holds the storage implementations the pipeline needs.
type allStores struct {
	referenceStore  storage.ReferenceStore
	pendingStore    storage.PendingTokenStore
	assessmentStore storage.AssessmentStore
	archiveStore    storage.AssessmentArchiveStore // nil without ClickHouse
}

// memorySeed names optional JSON fixture files loaded into the in-memory stores.
type memorySeed struct {
	tokensPath string
	safePath   string
	fakePath   string
}

// createStores wires memory or database-backed stores and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, seed memorySeed) (*allStores, func(), error) {
	if useMemory {
		stores, err := createMemoryStores(ctx, seed)
		if err != nil {
			return nil, nil, err
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

// createMemoryStores builds in-memory stores seeded from optional JSON fixtures.
func createMemoryStores(ctx context.Context, seed memorySeed) (*allStores, error) {
	safe, err := readEntryFile(seed.safePath)
	if err != nil {
		return nil, fmt.Errorf("load safe reference set: %w", err)
	}
	fake, err := readEntryFile(seed.fakePath)
	if err != nil {
		return nil, fmt.Errorf("load fake directory: %w", err)
	}

	pending := memory.NewPendingTokenStore()
	if seed.tokensPath != "" {
		data, err := os.ReadFile(seed.tokensPath)
		if err != nil {
			return nil, fmt.Errorf("load token fixtures: %w", err)
		}
		var tokens []domain.TokenRecord
		if err := json.Unmarshal(data, &tokens); err != nil {
			return nil, fmt.Errorf("parse token fixtures %s: %w", seed.tokensPath, err)
		}
		for i := range tokens {
			if err := pending.Insert(ctx, &tokens[i]); err != nil {
				return nil, fmt.Errorf("queue token fixture %s: %w", tokens[i].ContractAddress, err)
			}
		}
	}

	return &allStores{
		referenceStore:  memory.NewReferenceStore(safe, fake),
		pendingStore:    pending,
		assessmentStore: memory.NewAssessmentStore(),
	}, nil
}

func readEntryFile(path string) ([]domain.ReferenceEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []domain.ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

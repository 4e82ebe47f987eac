// Package orchestrator coordinates the assessment pipeline.
// Flow: load reference sets → classify pending tokens → persist → archive
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/classifier"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/observability"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// Orchestrator runs the assessment pipeline end to end.
type Orchestrator struct {
	engine *classifier.Engine

	referenceStore  storage.ReferenceStore
	pendingStore    storage.PendingTokenStore
	assessmentStore storage.AssessmentStore
	archiveStore    storage.AssessmentArchiveStore

	metrics    *observability.Metrics
	batchLimit int
	verbose    bool
}

// Options for creating Orchestrator.
type Options struct {
	// Engine defaults to classifier.NewEngine() when nil.
	Engine *classifier.Engine

	// Required stores
	ReferenceStore  storage.ReferenceStore
	PendingStore    storage.PendingTokenStore
	AssessmentStore storage.AssessmentStore

	// ArchiveStore is optional; when nil the archive phase is skipped.
	ArchiveStore storage.AssessmentArchiveStore

	// Metrics is optional.
	Metrics *observability.Metrics

	// BatchLimit caps how many pending tokens one run picks up. <= 0 means all.
	BatchLimit int

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	engine := opts.Engine
	if engine == nil {
		engine = classifier.NewEngine()
	}
	return &Orchestrator{
		engine:          engine,
		referenceStore:  opts.ReferenceStore,
		pendingStore:    opts.PendingStore,
		assessmentStore: opts.AssessmentStore,
		archiveStore:    opts.ArchiveStore,
		metrics:         opts.Metrics,
		batchLimit:      opts.BatchLimit,
		verbose:         opts.Verbose,
	}
}

// RunResult contains results from one pipeline run.
type RunResult struct {
	TokensAssessed  int
	TokensPersisted int
	CountsByType    map[domain.FraudType]int
	Errors          []string

	// Assessed carries the batch for downstream reporting.
	Assessed []*domain.AssessedToken
}

// Run executes the full pipeline once.
// Phases:
//  1. Load reference sets
//  2. Load pending tokens
//  3. Classify the batch
//  4. Persist assessments (continue on per-token errors)
//  5. Archive the batch (optional)
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	result := &RunResult{CountsByType: make(map[domain.FraudType]int)}

	// Phase 1: Reference sets
	o.log("Phase 1: Loading reference sets...")
	safeSet, err := o.referenceStore.GetSafeTokens(ctx)
	if err != nil {
		o.countReferenceError()
		return nil, fmt.Errorf("phase 1 (load safe tokens) failed: %w", err)
	}
	fraudSet, err := o.referenceStore.GetFakeDirectory(ctx)
	if err != nil {
		o.countReferenceError()
		return nil, fmt.Errorf("phase 1 (load fake directory) failed: %w", err)
	}
	o.log("  Loaded %d safe tokens, %d fake directory entries", len(safeSet), len(fraudSet))
	if o.metrics != nil {
		o.metrics.SafeSetSize.Set(float64(len(safeSet)))
		o.metrics.FakeDirectorySize.Set(float64(len(fraudSet)))
	}

	// Phase 2: Pending tokens
	o.log("Phase 2: Loading pending tokens...")
	tokens, err := o.pendingStore.GetPending(ctx, o.batchLimit)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (load pending tokens) failed: %w", err)
	}
	o.log("  Found %d pending tokens", len(tokens))

	if len(tokens) == 0 {
		return result, nil
	}

	// Phase 3: Classification
	o.log("Phase 3: Classifying batch...")
	assessed := o.engine.AssessBatch(tokens, safeSet, fraudSet)
	result.TokensAssessed = len(assessed)
	result.Assessed = assessed
	for _, a := range assessed {
		result.CountsByType[a.FraudType]++
		if o.metrics != nil {
			o.metrics.TokensAssessed.WithLabelValues(string(a.FraudType)).Inc()
		}
	}
	o.log("  Classified %d tokens", len(assessed))

	// Phase 4: Persistence. One bad row must not sink the batch.
	o.log("Phase 4: Persisting assessments...")
	persisted, persistErrors := o.persistAssessments(ctx, assessed)
	result.TokensPersisted = persisted
	result.Errors = append(result.Errors, persistErrors...)
	o.log("  Persisted %d assessments (%d errors)", persisted, len(persistErrors))

	// Phase 5: Archive
	if o.archiveStore != nil {
		o.log("Phase 5: Archiving batch...")
		if err := o.archiveStore.InsertBulk(ctx, assessed); err != nil {
			o.countPersistenceError("clickhouse")
			result.Errors = append(result.Errors, fmt.Sprintf("archive batch: %v", err))
		}
	}

	if o.metrics != nil {
		o.metrics.BatchesProcessed.Inc()
		o.metrics.BatchDuration.Observe(time.Since(started).Seconds())
		if len(result.Errors) == 0 {
			o.metrics.LastSuccessfulRun.Set(float64(time.Now().Unix()))
		}
	}

	o.log("Pipeline completed: %d assessed, %d persisted, %d errors",
		result.TokensAssessed, result.TokensPersisted, len(result.Errors))

	return result, nil
}

// persistAssessments writes each assessment individually, collecting errors
// instead of aborting. Duplicate keys count as already persisted.
func (o *Orchestrator) persistAssessments(ctx context.Context, assessed []*domain.AssessedToken) (int, []string) {
	var persisted int
	var errs []string

	for _, a := range assessed {
		if err := o.assessmentStore.Insert(ctx, a); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				persisted++
				continue
			}
			o.countPersistenceError("postgres")
			errs = append(errs, fmt.Sprintf("persist %s/%s: %v", a.ContractAddress, a.Blockchain, err))
			continue
		}
		persisted++
	}

	return persisted, errs
}

func (o *Orchestrator) countPersistenceError(sink string) {
	if o.metrics != nil {
		o.metrics.PersistenceErrors.WithLabelValues(sink).Inc()
	}
}

func (o *Orchestrator) countReferenceError() {
	if o.metrics != nil {
		o.metrics.ReferenceLoadErrors.Inc()
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}

package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage/memory"
)

func TestOrchestrator_Run_EmptyQueue(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()

	orch := New(Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: stores.assessmentStore,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.TokensAssessed != 0 {
		t.Errorf("expected 0 assessed, got %d", result.TokensAssessed)
	}
	if result.TokensPersisted != 0 {
		t.Errorf("expected 0 persisted, got %d", result.TokensPersisted)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestOrchestrator_Run_ClassifiesAndPersists(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()

	tokens := []*domain.TokenRecord{
		{
			Name:            ptr("Tether USD"),
			Symbol:          ptr("USDT"),
			ContractAddress: "0xcounterfeit",
			Blockchain:      "ethereum",
		},
		{
			Name:            ptr("Quiet Token"),
			Symbol:          ptr("QT"),
			ContractAddress: "0xquiet",
			Blockchain:      "ethereum",
		},
	}
	for _, tok := range tokens {
		if err := stores.pendingStore.Insert(ctx, tok); err != nil {
			t.Fatalf("insert pending token: %v", err)
		}
	}

	orch := New(Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: stores.assessmentStore,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.TokensAssessed != 2 {
		t.Errorf("expected 2 assessed, got %d", result.TokensAssessed)
	}
	if result.TokensPersisted != 2 {
		t.Errorf("expected 2 persisted, got %d", result.TokensPersisted)
	}
	if result.CountsByType[domain.FraudCounterfeit] != 1 {
		t.Errorf("expected 1 counterfeit, got %d", result.CountsByType[domain.FraudCounterfeit])
	}
	if result.CountsByType[domain.FraudUnknown] != 1 {
		t.Errorf("expected 1 unknown, got %d", result.CountsByType[domain.FraudUnknown])
	}

	stored, err := stores.assessmentStore.GetByContract(ctx, "0xcounterfeit", "ethereum")
	if err != nil {
		t.Fatalf("get stored assessment: %v", err)
	}
	if stored.FraudType != domain.FraudCounterfeit {
		t.Errorf("expected counterfeit, got %s", stored.FraudType)
	}
	if stored.RiskCategory != domain.RiskHigh {
		t.Errorf("expected high risk, got %s", stored.RiskCategory)
	}
}

func TestOrchestrator_Run_BatchLimit(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()

	for _, addr := range []string{"0x1", "0x2", "0x3"} {
		err := stores.pendingStore.Insert(ctx, &domain.TokenRecord{
			ContractAddress: addr,
			Blockchain:      "ethereum",
		})
		if err != nil {
			t.Fatalf("insert pending token: %v", err)
		}
	}

	orch := New(Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: stores.assessmentStore,
		BatchLimit:      2,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.TokensAssessed != 2 {
		t.Errorf("expected 2 assessed, got %d", result.TokensAssessed)
	}
}

func TestOrchestrator_Run_PersistErrorsDoNotAbort(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()

	for _, addr := range []string{"0xgood", "0xbad"} {
		err := stores.pendingStore.Insert(ctx, &domain.TokenRecord{
			ContractAddress: addr,
			Blockchain:      "ethereum",
		})
		if err != nil {
			t.Fatalf("insert pending token: %v", err)
		}
	}

	failing := &failingAssessmentStore{
		inner:   stores.assessmentStore,
		failFor: "0xbad",
	}

	orch := New(Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: failing,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.TokensAssessed != 2 {
		t.Errorf("expected 2 assessed, got %d", result.TokensAssessed)
	}
	if result.TokensPersisted != 1 {
		t.Errorf("expected 1 persisted, got %d", result.TokensPersisted)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
}

func TestOrchestrator_Run_ArchivesBatch(t *testing.T) {
	ctx := context.Background()
	stores := createTestStores()

	err := stores.pendingStore.Insert(ctx, &domain.TokenRecord{
		ContractAddress: "0xarchived",
		Blockchain:      "ethereum",
	})
	if err != nil {
		t.Fatalf("insert pending token: %v", err)
	}

	archive := &recordingArchiveStore{}

	orch := New(Options{
		ReferenceStore:  stores.referenceStore,
		PendingStore:    stores.pendingStore,
		AssessmentStore: stores.assessmentStore,
		ArchiveStore:    archive,
	})

	if _, err := orch.Run(ctx); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(archive.batches) != 1 {
		t.Fatalf("expected 1 archived batch, got %d", len(archive.batches))
	}
	if len(archive.batches[0]) != 1 {
		t.Errorf("expected 1 token in archived batch, got %d", len(archive.batches[0]))
	}
}

// testStores holds all memory stores for testing.
type testStores struct {
	referenceStore  *memory.ReferenceStore
	pendingStore    *memory.PendingTokenStore
	assessmentStore *memory.AssessmentStore
}

func createTestStores() *testStores {
	safeSet := []domain.ReferenceEntry{
		{Name: "Tether USD", Symbol: "USDT"},
		{Name: "USD Coin", Symbol: "USDC"},
	}
	fakeDirectory := []domain.ReferenceEntry{
		{Name: "Free ETH Airdrop", Symbol: "FREETH"},
	}
	return &testStores{
		referenceStore:  memory.NewReferenceStore(safeSet, fakeDirectory),
		pendingStore:    memory.NewPendingTokenStore(),
		assessmentStore: memory.NewAssessmentStore(),
	}
}

// failingAssessmentStore fails Insert for one contract address.
type failingAssessmentStore struct {
	inner   *memory.AssessmentStore
	failFor string
}

func (s *failingAssessmentStore) Insert(ctx context.Context, a *domain.AssessedToken) error {
	if a.ContractAddress == s.failFor {
		return errors.New("write refused")
	}
	return s.inner.Insert(ctx, a)
}

func (s *failingAssessmentStore) GetByContract(ctx context.Context, contractAddress, blockchain string) (*domain.AssessedToken, error) {
	return s.inner.GetByContract(ctx, contractAddress, blockchain)
}

func (s *failingAssessmentStore) GetByFraudType(ctx context.Context, ft domain.FraudType) ([]*domain.AssessedToken, error) {
	return s.inner.GetByFraudType(ctx, ft)
}

// recordingArchiveStore captures archived batches.
type recordingArchiveStore struct {
	batches [][]*domain.AssessedToken
}

func (s *recordingArchiveStore) InsertBulk(_ context.Context, batch []*domain.AssessedToken) error {
	s.batches = append(s.batches, batch)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

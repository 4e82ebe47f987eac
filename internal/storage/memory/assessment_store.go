package memory

import (
	"context"
	"sync"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// assessmentKey is the identity key for persisted assessments.
type assessmentKey struct {
	contractAddress string
	blockchain      string
}

// AssessmentStore is an in-memory implementation of storage.AssessmentStore.
type AssessmentStore struct {
	mu      sync.RWMutex
	byKey   map[assessmentKey]*domain.AssessedToken
	ordered []assessmentKey // insertion order for stable listings
}

// NewAssessmentStore creates a new in-memory assessment store.
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{
		byKey: make(map[assessmentKey]*domain.AssessedToken),
	}
}

// Insert persists one assessed token. Returns ErrDuplicateKey if the
// (contract_address, blockchain) key already exists.
func (s *AssessmentStore) Insert(_ context.Context, a *domain.AssessedToken) error {
	if a == nil || a.ContractAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := assessmentKey{a.ContractAddress, a.Blockchain}
	if _, exists := s.byKey[k]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *a
	s.byKey[k] = &cp
	s.ordered = append(s.ordered, k)
	return nil
}

// GetByContract retrieves an assessment by its identity key.
func (s *AssessmentStore) GetByContract(_ context.Context, contractAddress, blockchain string) (*domain.AssessedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.byKey[assessmentKey{contractAddress, blockchain}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// GetByFraudType retrieves all assessments carrying the given label, in
// insertion order.
func (s *AssessmentStore) GetByFraudType(_ context.Context, ft domain.FraudType) ([]*domain.AssessedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.AssessedToken
	for _, k := range s.ordered {
		if a := s.byKey[k]; a.FraudType == ft {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ storage.AssessmentStore = (*AssessmentStore)(nil)

package memory

import (
	"context"
	"sync"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// ReferenceStore is an in-memory implementation of storage.ReferenceStore.
type ReferenceStore struct {
	mu            sync.RWMutex
	safeTokens    []domain.ReferenceEntry
	fakeDirectory []domain.ReferenceEntry
}

// NewReferenceStore creates an in-memory reference store seeded with the
// given sets. Either set may be nil.
func NewReferenceStore(safeTokens, fakeDirectory []domain.ReferenceEntry) *ReferenceStore {
	return &ReferenceStore{
		safeTokens:    append([]domain.ReferenceEntry(nil), safeTokens...),
		fakeDirectory: append([]domain.ReferenceEntry(nil), fakeDirectory...),
	}
}

// AddSafeToken appends one entry to the safe set.
func (s *ReferenceStore) AddSafeToken(e domain.ReferenceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.safeTokens = append(s.safeTokens, e)
}

// AddFakeEntry appends one entry to the fake directory.
func (s *ReferenceStore) AddFakeEntry(e domain.ReferenceEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fakeDirectory = append(s.fakeDirectory, e)
}

// GetSafeTokens returns a copy of the safe set.
func (s *ReferenceStore) GetSafeTokens(_ context.Context) ([]domain.ReferenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ReferenceEntry(nil), s.safeTokens...), nil
}

// GetFakeDirectory returns a copy of the fake directory.
func (s *ReferenceStore) GetFakeDirectory(_ context.Context) ([]domain.ReferenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ReferenceEntry(nil), s.fakeDirectory...), nil
}

var _ storage.ReferenceStore = (*ReferenceStore)(nil)

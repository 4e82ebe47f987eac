package memory

import (
	"context"
	"sync"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// PendingTokenStore is an in-memory implementation of
// storage.PendingTokenStore. GetPending drains: returned tokens leave the
// queue, so a crashed batch loses them. The durable backend is postgres;
// this store exists for fixture runs and tests.
type PendingTokenStore struct {
	mu    sync.Mutex
	queue []domain.TokenRecord
}

// NewPendingTokenStore creates an empty in-memory token queue.
func NewPendingTokenStore() *PendingTokenStore {
	return &PendingTokenStore{}
}

// Insert queues a discovered token.
func (s *PendingTokenStore) Insert(_ context.Context, t *domain.TokenRecord) error {
	if t == nil || t.ContractAddress == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, *t)
	return nil
}

// GetPending returns up to limit queued tokens and removes them from the
// queue. limit <= 0 means all.
func (s *PendingTokenStore) GetPending(_ context.Context, limit int) ([]domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.queue)
	if limit > 0 && limit < n {
		n = limit
	}
	out := append([]domain.TokenRecord(nil), s.queue[:n]...)
	s.queue = s.queue[n:]
	return out, nil
}

var _ storage.PendingTokenStore = (*PendingTokenStore)(nil)

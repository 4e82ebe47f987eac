package storage

import (
	"context"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

// ReferenceStore supplies the two reference sets the classifier matches
// against. The engine needs read access only; rows are returned as plain
// (name, symbol) pairs in store order.
type ReferenceStore interface {
	// GetSafeTokens returns the canonical legitimate token pairs.
	GetSafeTokens(ctx context.Context) ([]domain.ReferenceEntry, error)

	// GetFakeDirectory returns the previously confirmed scam pairs.
	// Rows may contain duplicates; deduplication happens in the comparator.
	GetFakeDirectory(ctx context.Context) ([]domain.ReferenceEntry, error)
}

// PendingTokenStore supplies discovered tokens awaiting assessment.
type PendingTokenStore interface {
	// Insert queues a newly discovered token.
	Insert(ctx context.Context, t *domain.TokenRecord) error

	// GetPending returns up to limit tokens that have not been assessed yet.
	GetPending(ctx context.Context, limit int) ([]domain.TokenRecord, error)
}

// AssessmentStore is the result sink. Records are keyed by
// (contract_address, blockchain).
type AssessmentStore interface {
	// Insert persists one assessed token. Returns ErrDuplicateKey if the
	// identity key already exists.
	Insert(ctx context.Context, a *domain.AssessedToken) error

	// GetByContract retrieves an assessment by its identity key.
	// Returns ErrNotFound if not exists.
	GetByContract(ctx context.Context, contractAddress, blockchain string) (*domain.AssessedToken, error)

	// GetByFraudType retrieves all assessments carrying the given label.
	GetByFraudType(ctx context.Context, ft domain.FraudType) ([]*domain.AssessedToken, error)
}

// AssessmentArchiveStore is the append-only analytics archive for assessed
// batches.
type AssessmentArchiveStore interface {
	// InsertBulk appends a batch of assessments.
	InsertBulk(ctx context.Context, batch []*domain.AssessedToken) error
}

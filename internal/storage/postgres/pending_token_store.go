package postgres

import (
	"context"
	"fmt"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// PendingTokenStore implements storage.PendingTokenStore using PostgreSQL.
// A token counts as pending while no row with its identity key exists in
// token_assessments, so re-running a failed batch picks the token up again.
type PendingTokenStore struct {
	pool *Pool
}

// NewPendingTokenStore creates a new PendingTokenStore.
func NewPendingTokenStore(pool *Pool) *PendingTokenStore {
	return &PendingTokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PendingTokenStore = (*PendingTokenStore)(nil)

// Insert queues a newly discovered token. Returns ErrDuplicateKey if the
// (contract_address, blockchain) key was already discovered.
func (s *PendingTokenStore) Insert(ctx context.Context, t *domain.TokenRecord) error {
	if t == nil || t.ContractAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO discovered_tokens (
			contract_address, blockchain, name, symbol, decimals,
			creator_address, created_block_timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ContractAddress,
		t.Blockchain,
		t.Name,
		t.Symbol,
		t.Decimals,
		t.CreatorAddress,
		t.CreatedBlockTimestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert discovered token: %w", err)
	}
	return nil
}

// GetPending returns up to limit discovered tokens with no assessment yet,
// oldest first. limit <= 0 means all.
func (s *PendingTokenStore) GetPending(ctx context.Context, limit int) ([]domain.TokenRecord, error) {
	query := `
		SELECT d.contract_address, d.blockchain, d.name, d.symbol, d.decimals,
		       d.creator_address, d.created_block_timestamp
		FROM discovered_tokens d
		LEFT JOIN token_assessments a
		  ON a.contract_address = d.contract_address AND a.blockchain = d.blockchain
		WHERE a.contract_address IS NULL
		ORDER BY d.discovered_at
		LIMIT NULLIF($1, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.TokenRecord
	for rows.Next() {
		var t domain.TokenRecord
		err := rows.Scan(
			&t.ContractAddress,
			&t.Blockchain,
			&t.Name,
			&t.Symbol,
			&t.Decimals,
			&t.CreatorAddress,
			&t.CreatedBlockTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pending token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

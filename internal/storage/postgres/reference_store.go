package postgres

import (
	"context"
	"fmt"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// ReferenceStore implements storage.ReferenceStore using PostgreSQL.
type ReferenceStore struct {
	pool *Pool
}

// NewReferenceStore creates a new ReferenceStore.
func NewReferenceStore(pool *Pool) *ReferenceStore {
	return &ReferenceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReferenceStore = (*ReferenceStore)(nil)

// GetSafeTokens returns the canonical legitimate token pairs in table order.
func (s *ReferenceStore) GetSafeTokens(ctx context.Context) ([]domain.ReferenceEntry, error) {
	entries, err := s.getEntries(ctx, "safe_tokens")
	if err != nil {
		return nil, fmt.Errorf("get safe tokens: %w", err)
	}
	return entries, nil
}

// GetFakeDirectory returns the confirmed scam pairs in table order, without
// deduplication.
func (s *ReferenceStore) GetFakeDirectory(ctx context.Context) ([]domain.ReferenceEntry, error) {
	entries, err := s.getEntries(ctx, "fake_directory")
	if err != nil {
		return nil, fmt.Errorf("get fake directory: %w", err)
	}
	return entries, nil
}

func (s *ReferenceStore) getEntries(ctx context.Context, table string) ([]domain.ReferenceEntry, error) {
	// table is one of two fixed identifiers, never caller input.
	query := fmt.Sprintf(`SELECT name, symbol FROM %s ORDER BY id`, table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ReferenceEntry
	for rows.Next() {
		var e domain.ReferenceEntry
		if err := rows.Scan(&e.Name, &e.Symbol); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddSafeToken inserts one safe reference pair. Returns ErrDuplicateKey on
// an existing (name, symbol).
func (s *ReferenceStore) AddSafeToken(ctx context.Context, e domain.ReferenceEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO safe_tokens (name, symbol) VALUES ($1, $2)`, e.Name, e.Symbol)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert safe token: %w", err)
	}
	return nil
}

// AddFakeEntry inserts one fake-directory pair. The directory allows
// duplicate rows; deduplication happens at match time.
func (s *ReferenceStore) AddFakeEntry(ctx context.Context, e domain.ReferenceEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fake_directory (name, symbol) VALUES ($1, $2)`, e.Name, e.Symbol)
	if err != nil {
		return fmt.Errorf("insert fake directory entry: %w", err)
	}
	return nil
}

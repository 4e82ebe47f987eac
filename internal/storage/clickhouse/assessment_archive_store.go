package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// AssessmentArchiveStore implements storage.AssessmentArchiveStore using
// ClickHouse. The archive is append-only: every batch run lands as new rows,
// keyed by (contract_address, blockchain, assessed_at), so the history of
// re-assessments stays queryable.
type AssessmentArchiveStore struct {
	conn *Conn

	// now is injectable for tests.
	now func() time.Time
}

// NewAssessmentArchiveStore creates a new AssessmentArchiveStore.
func NewAssessmentArchiveStore(conn *Conn) *AssessmentArchiveStore {
	return &AssessmentArchiveStore{conn: conn, now: time.Now}
}

// Compile-time interface check.
var _ storage.AssessmentArchiveStore = (*AssessmentArchiveStore)(nil)

// InsertBulk appends a batch of assessments with a single batch timestamp.
func (s *AssessmentArchiveStore) InsertBulk(ctx context.Context, batch []*domain.AssessedToken) error {
	if len(batch) == 0 {
		return nil
	}

	prepared, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO token_assessments_archive (
			contract_address, blockchain, name, symbol,
			fraud_type, risk_category,
			urls_found, domains_found, phishing_indicators, money_amounts, warnings,
			risk_score, is_suspicious,
			safe_combined_score, fraud_combined_score,
			assessed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	assessedAt := s.now().UTC()
	for _, a := range batch {
		err = prepared.Append(
			a.ContractAddress,
			a.Blockchain,
			emptyIfNil(a.Name),
			emptyIfNil(a.Symbol),
			string(a.FraudType),
			string(a.RiskCategory),
			emptySlice(a.URLsFound),
			emptySlice(a.DomainsFound),
			emptySlice(a.PhishingIndicators),
			emptySlice(a.MoneyAmounts),
			emptySlice(a.Warnings),
			int32(a.RiskScore),
			a.IsSuspicious,
			combinedOrZero(a.SafeMatch),
			combinedOrZero(a.FraudMatch),
			assessedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := prepared.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// CountByFraudType returns archive row counts grouped by fraud label.
func (s *AssessmentArchiveStore) CountByFraudType(ctx context.Context) (map[domain.FraudType]uint64, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT fraud_type, count() AS n
		FROM token_assessments_archive
		GROUP BY fraud_type
	`)
	if err != nil {
		return nil, fmt.Errorf("count archive by fraud type: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.FraudType]uint64)
	for rows.Next() {
		var ft string
		var n uint64
		if err := rows.Scan(&ft, &n); err != nil {
			return nil, fmt.Errorf("scan archive count: %w", err)
		}
		counts[domain.FraudType(ft)] = n
	}
	return counts, rows.Err()
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// emptySlice maps nil to an empty array for non-Nullable Array(String)
// columns.
func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func combinedOrZero(m *domain.MatchResult) float64 {
	if m == nil {
		return 0
	}
	return m.CombinedScore
}

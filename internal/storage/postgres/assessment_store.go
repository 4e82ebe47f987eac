package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/storage"
)

// AssessmentStore implements storage.AssessmentStore using PostgreSQL.
type AssessmentStore struct {
	pool *Pool
}

// NewAssessmentStore creates a new AssessmentStore.
func NewAssessmentStore(pool *Pool) *AssessmentStore {
	return &AssessmentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AssessmentStore = (*AssessmentStore)(nil)

const assessmentColumns = `
	contract_address, blockchain, name, symbol, decimals,
	creator_address, created_block_timestamp,
	fraud_type, risk_category,
	urls_found, domains_found, phishing_indicators, money_amounts, warnings,
	risk_score, is_suspicious,
	safe_match_name, safe_match_symbol, safe_symbol_similarity,
	safe_name_similarity, safe_combined_score, safe_is_match,
	fraud_match_name, fraud_match_symbol, fraud_symbol_similarity,
	fraud_name_similarity, fraud_combined_score, fraud_is_match
`

// Insert persists one assessed token. Returns ErrDuplicateKey if the
// (contract_address, blockchain) key already exists.
func (s *AssessmentStore) Insert(ctx context.Context, a *domain.AssessedToken) error {
	if a == nil || a.ContractAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_assessments (` + assessmentColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
	`

	safe := matchFields(a.SafeMatch)
	fraud := matchFields(a.FraudMatch)

	_, err := s.pool.Exec(ctx, query,
		a.ContractAddress,
		a.Blockchain,
		a.Name,
		a.Symbol,
		a.Decimals,
		a.CreatorAddress,
		a.CreatedBlockTimestamp,
		string(a.FraudType),
		string(a.RiskCategory),
		a.URLsFound,
		a.DomainsFound,
		a.PhishingIndicators,
		a.MoneyAmounts,
		a.Warnings,
		a.RiskScore,
		a.IsSuspicious,
		safe.name, safe.symbol, safe.symbolSim, safe.nameSim, safe.combined, safe.isMatch,
		fraud.name, fraud.symbol, fraud.symbolSim, fraud.nameSim, fraud.combined, fraud.isMatch,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token assessment: %w", err)
	}
	return nil
}

// GetByContract retrieves an assessment by its identity key. Returns
// ErrNotFound if not exists.
func (s *AssessmentStore) GetByContract(ctx context.Context, contractAddress, blockchain string) (*domain.AssessedToken, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM token_assessments
		WHERE contract_address = $1 AND blockchain = $2
	`

	row := s.pool.QueryRow(ctx, query, contractAddress, blockchain)
	a, err := scanAssessment(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get assessment by contract: %w", err)
	}
	return a, nil
}

// GetByFraudType retrieves all assessments carrying the given label, ordered
// by identity key for stable output.
func (s *AssessmentStore) GetByFraudType(ctx context.Context, ft domain.FraudType) ([]*domain.AssessedToken, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM token_assessments
		WHERE fraud_type = $1
		ORDER BY contract_address, blockchain
	`

	rows, err := s.pool.Query(ctx, query, string(ft))
	if err != nil {
		return nil, fmt.Errorf("get assessments by fraud type: %w", err)
	}
	defer rows.Close()

	var out []*domain.AssessedToken
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// nullableMatch carries the flattened match columns for one reference set.
type nullableMatch struct {
	name      *string
	symbol    *string
	symbolSim *float64
	nameSim   *float64
	combined  *float64
	isMatch   *bool
}

func matchFields(m *domain.MatchResult) nullableMatch {
	if m == nil {
		return nullableMatch{}
	}
	return nullableMatch{
		name:      &m.MatchName,
		symbol:    &m.MatchSymbol,
		symbolSim: &m.SymbolSimilarity,
		nameSim:   &m.NameSimilarity,
		combined:  &m.CombinedScore,
		isMatch:   &m.IsMatch,
	}
}

func (n nullableMatch) toResult() *domain.MatchResult {
	if n.name == nil {
		return nil
	}
	m := &domain.MatchResult{MatchName: *n.name}
	if n.symbol != nil {
		m.MatchSymbol = *n.symbol
	}
	if n.symbolSim != nil {
		m.SymbolSimilarity = *n.symbolSim
	}
	if n.nameSim != nil {
		m.NameSimilarity = *n.nameSim
	}
	if n.combined != nil {
		m.CombinedScore = *n.combined
	}
	if n.isMatch != nil {
		m.IsMatch = *n.isMatch
	}
	return m
}

// scanAssessment scans a single row into AssessedToken.
func scanAssessment(row pgx.Row) (*domain.AssessedToken, error) {
	var a domain.AssessedToken
	var fraudType, riskCategory string
	var safe, fraud nullableMatch

	err := row.Scan(
		&a.ContractAddress,
		&a.Blockchain,
		&a.Name,
		&a.Symbol,
		&a.Decimals,
		&a.CreatorAddress,
		&a.CreatedBlockTimestamp,
		&fraudType,
		&riskCategory,
		&a.URLsFound,
		&a.DomainsFound,
		&a.PhishingIndicators,
		&a.MoneyAmounts,
		&a.Warnings,
		&a.RiskScore,
		&a.IsSuspicious,
		&safe.name, &safe.symbol, &safe.symbolSim, &safe.nameSim, &safe.combined, &safe.isMatch,
		&fraud.name, &fraud.symbol, &fraud.symbolSim, &fraud.nameSim, &fraud.combined, &fraud.isMatch,
	)
	if err != nil {
		return nil, err
	}

	a.FraudType = domain.FraudType(fraudType)
	a.RiskCategory = domain.RiskCategory(riskCategory)
	a.SafeMatch = safe.toResult()
	a.FraudMatch = fraud.toResult()
	return &a, nil
}

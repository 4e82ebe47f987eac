package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

func TestAssessmentArchiveStore_InsertBulkAndCount(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAssessmentArchiveStore(conn)
	ctx := context.Background()

	batch := []*domain.AssessedToken{
		{
			TokenRecord: domain.TokenRecord{
				Name:            ptr("Visit usdt-bonus.io to claim reward"),
				Symbol:          ptr("USDT"),
				ContractAddress: "0x1",
				Blockchain:      "ethereum",
			},
			FraudType:          domain.FraudPhishing,
			RiskCategory:       domain.RiskHigh,
			URLsFound:          []string{"usdt-bonus.io"},
			DomainsFound:       []string{"usdt-bonus.io"},
			PhishingIndicators: []string{"claim", "reward"},
			RiskScore:          45,
			IsSuspicious:       true,
		},
		{
			TokenRecord: domain.TokenRecord{
				Name:            ptr("Tether USD"),
				Symbol:          ptr("USDT"),
				ContractAddress: "0x2",
				Blockchain:      "ethereum",
			},
			FraudType:    domain.FraudCounterfeit,
			RiskCategory: domain.RiskHigh,
			SafeMatch: &domain.MatchResult{
				MatchName:     "Tether USD",
				MatchSymbol:   "USDT",
				CombinedScore: 1.0,
				IsMatch:       true,
			},
		},
		{
			TokenRecord: domain.TokenRecord{
				ContractAddress: "0x3",
				Blockchain:      "ethereum",
			},
			FraudType:    domain.FraudUnknown,
			RiskCategory: domain.RiskUnknown,
		},
	}

	err := store.InsertBulk(ctx, batch)
	require.NoError(t, err)

	counts, err := store.CountByFraudType(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), counts[domain.FraudPhishing])
	assert.Equal(t, uint64(1), counts[domain.FraudCounterfeit])
	assert.Equal(t, uint64(1), counts[domain.FraudUnknown])
}

func TestAssessmentArchiveStore_RowContents(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAssessmentArchiveStore(conn)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.AssessedToken{
		{
			TokenRecord: domain.TokenRecord{
				Name:            ptr("MoonSafe"),
				Symbol:          ptr("MOON"),
				ContractAddress: "0xmoon",
				Blockchain:      "bsc",
			},
			FraudType:    domain.FraudSuspicious,
			RiskCategory: domain.RiskCaution,
			MoneyAmounts: []string{"$5.00"},
			RiskScore:    20,
			FraudMatch: &domain.MatchResult{
				MatchName:     "MoonSafe",
				MatchSymbol:   "MSAFE",
				CombinedScore: 0.7,
			},
		},
	})
	require.NoError(t, err)

	row := conn.QueryRow(ctx, `
		SELECT contract_address, blockchain, name, symbol,
		       fraud_type, risk_category,
		       money_amounts, risk_score, is_suspicious,
		       safe_combined_score, fraud_combined_score, assessed_at
		FROM token_assessments_archive
		WHERE contract_address = '0xmoon'
	`)

	var (
		contract, chain, name, symbol, fraudType, riskCategory string
		moneyAmounts                                           []string
		riskScore                                              int32
		isSuspicious                                           bool
		safeScore, fraudScore                                  float64
		assessedAt                                             time.Time
	)
	err = row.Scan(&contract, &chain, &name, &symbol, &fraudType, &riskCategory,
		&moneyAmounts, &riskScore, &isSuspicious, &safeScore, &fraudScore, &assessedAt)
	require.NoError(t, err)

	assert.Equal(t, "0xmoon", contract)
	assert.Equal(t, "bsc", chain)
	assert.Equal(t, "MoonSafe", name)
	assert.Equal(t, "MOON", symbol)
	assert.Equal(t, "suspicious", fraudType)
	assert.Equal(t, "caution", riskCategory)
	assert.Equal(t, []string{"$5.00"}, moneyAmounts)
	assert.Equal(t, int32(20), riskScore)
	assert.False(t, isSuspicious)
	assert.Zero(t, safeScore)
	assert.Equal(t, 0.7, fraudScore)
	assert.Equal(t, fixed, assessedAt.UTC())
}

func TestAssessmentArchiveStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAssessmentArchiveStore(conn)

	err := store.InsertBulk(context.Background(), nil)
	require.NoError(t, err)

	counts, err := store.CountByFraudType(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAssessmentArchiveStore_ReassessmentKeepsHistory(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAssessmentArchiveStore(conn)
	ctx := context.Background()

	token := &domain.AssessedToken{
		TokenRecord: domain.TokenRecord{
			ContractAddress: "0xsame",
			Blockchain:      "ethereum",
		},
		FraudType:    domain.FraudUnknown,
		RiskCategory: domain.RiskUnknown,
	}

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	require.NoError(t, store.InsertBulk(ctx, []*domain.AssessedToken{token}))

	store.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, store.InsertBulk(ctx, []*domain.AssessedToken{token}))

	counts, err := store.CountByFraudType(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), counts[domain.FraudUnknown])
}

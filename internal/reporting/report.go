package reporting

import "time"

// Report summarizes one assessment batch.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	TotalTokens int

	// Distribution over labels, sorted by ladder priority
	FraudTypeCounts    []FraudTypeCountRow
	RiskCategoryCounts []RiskCategoryCountRow

	// Flagged tokens (everything that did not resolve to "unknown"),
	// sorted by risk score descending then identity key
	FlaggedTokens []FlaggedTokenRow

	// Indicator totals across the batch
	IndicatorSummary IndicatorSummary
}

// FraudTypeCountRow is one row of the label distribution table.
type FraudTypeCountRow struct {
	FraudType string
	Count     int
}

// RiskCategoryCountRow is one row of the risk distribution table.
type RiskCategoryCountRow struct {
	RiskCategory string
	Count        int
}

// FlaggedTokenRow represents one flagged token in the report.
type FlaggedTokenRow struct {
	ContractAddress string
	Blockchain      string
	Name            string
	Symbol          string
	FraudType       string
	RiskCategory    string
	RiskScore       int
	MatchedName     string // best reference hit, when one gated the label
	MatchedSymbol   string
	CombinedScore   float64
	Indicators      string // joined phishing indicator terms
}

// IndicatorSummary aggregates indicator hits across the batch.
type IndicatorSummary struct {
	TokensWithURLs     int
	TokensWithKeywords int
	TokensWithAmounts  int
	SuspiciousTokens   int
	ExtractionWarnings int
}

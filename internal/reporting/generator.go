package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

// fraudTypeOrder fixes the table order to the classifier's ladder priority.
var fraudTypeOrder = []domain.FraudType{
	domain.FraudPhishing,
	domain.FraudRepeatScam,
	domain.FraudCounterfeit,
	domain.FraudSuspicious,
	domain.FraudLegit,
	domain.FraudUnknown,
}

var riskCategoryOrder = []domain.RiskCategory{
	domain.RiskHigh,
	domain.RiskCaution,
	domain.RiskUnknown,
}

// Generator produces reports from assessed batches.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a complete batch report.
func (g *Generator) Generate(batch []*domain.AssessedToken) *Report {
	report := &Report{
		GeneratedAt: g.now(),
		TotalTokens: len(batch),
	}

	fraudCounts := make(map[domain.FraudType]int)
	riskCounts := make(map[domain.RiskCategory]int)

	for _, a := range batch {
		fraudCounts[a.FraudType]++
		riskCounts[a.RiskCategory]++

		if len(a.URLsFound) > 0 {
			report.IndicatorSummary.TokensWithURLs++
		}
		if len(a.PhishingIndicators) > 0 {
			report.IndicatorSummary.TokensWithKeywords++
		}
		if len(a.MoneyAmounts) > 0 {
			report.IndicatorSummary.TokensWithAmounts++
		}
		if a.IsSuspicious {
			report.IndicatorSummary.SuspiciousTokens++
		}
		report.IndicatorSummary.ExtractionWarnings += len(a.Warnings)

		if a.FraudType != domain.FraudUnknown && a.FraudType != domain.FraudLegit {
			report.FlaggedTokens = append(report.FlaggedTokens, flaggedRow(a))
		}
	}

	for _, ft := range fraudTypeOrder {
		if n := fraudCounts[ft]; n > 0 {
			report.FraudTypeCounts = append(report.FraudTypeCounts, FraudTypeCountRow{
				FraudType: string(ft),
				Count:     n,
			})
		}
	}
	for _, rc := range riskCategoryOrder {
		if n := riskCounts[rc]; n > 0 {
			report.RiskCategoryCounts = append(report.RiskCategoryCounts, RiskCategoryCountRow{
				RiskCategory: string(rc),
				Count:        n,
			})
		}
	}

	sortFlaggedTokens(report.FlaggedTokens)
	return report
}

// flaggedRow flattens one assessed token into a report row.
func flaggedRow(a *domain.AssessedToken) FlaggedTokenRow {
	row := FlaggedTokenRow{
		ContractAddress: a.ContractAddress,
		Blockchain:      a.Blockchain,
		Name:            a.NameText(),
		Symbol:          a.SymbolText(),
		FraudType:       string(a.FraudType),
		RiskCategory:    string(a.RiskCategory),
		RiskScore:       a.RiskScore,
		Indicators:      strings.Join(a.PhishingIndicators, " "),
	}

	// Show the reference hit that gated the label, fraud set first.
	switch {
	case a.FraudMatch != nil && a.FraudMatch.IsMatch:
		row.MatchedName = a.FraudMatch.MatchName
		row.MatchedSymbol = a.FraudMatch.MatchSymbol
		row.CombinedScore = a.FraudMatch.CombinedScore
	case a.SafeMatch != nil && a.SafeMatch.IsMatch:
		row.MatchedName = a.SafeMatch.MatchName
		row.MatchedSymbol = a.SafeMatch.MatchSymbol
		row.CombinedScore = a.SafeMatch.CombinedScore
	}

	return row
}

// sortFlaggedTokens sorts by risk score descending, then identity key.
func sortFlaggedTokens(rows []FlaggedTokenRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RiskScore != rows[j].RiskScore {
			return rows[i].RiskScore > rows[j].RiskScore
		}
		if rows[i].ContractAddress != rows[j].ContractAddress {
			return rows[i].ContractAddress < rows[j].ContractAddress
		}
		return rows[i].Blockchain < rows[j].Blockchain
	})
}

package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

// RenderCSV renders an assessed batch as CSV string, one row per token.
// Token names are arbitrary text, so fields go through encoding/csv quoting.
func RenderCSV(batch []*domain.AssessedToken) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{
		"contract_address", "blockchain", "name", "symbol",
		"fraud_type", "risk_category", "risk_score", "is_suspicious",
		"urls_found", "domains_found", "phishing_indicators", "money_amounts",
		"safe_match", "safe_combined_score", "fraud_match", "fraud_combined_score",
	})

	for _, a := range batch {
		_ = w.Write([]string{
			a.ContractAddress,
			a.Blockchain,
			a.NameText(),
			a.SymbolText(),
			string(a.FraudType),
			string(a.RiskCategory),
			strconv.Itoa(a.RiskScore),
			strconv.FormatBool(a.IsSuspicious),
			strings.Join(a.URLsFound, " "),
			strings.Join(a.DomainsFound, " "),
			strings.Join(a.PhishingIndicators, " "),
			strings.Join(a.MoneyAmounts, " "),
			matchLabel(a.SafeMatch),
			matchScore(a.SafeMatch),
			matchLabel(a.FraudMatch),
			matchScore(a.FraudMatch),
		})
	}

	w.Flush()
	return sb.String()
}

func matchLabel(m *domain.MatchResult) string {
	if m == nil {
		return ""
	}
	return m.MatchName + " (" + m.MatchSymbol + ")"
}

func matchScore(m *domain.MatchResult) string {
	if m == nil {
		return ""
	}
	return strconv.FormatFloat(m.CombinedScore, 'f', 6, 64)
}

package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Fraud Assessment Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Tokens assessed: %d\n\n", r.TotalTokens))

	// Label distribution
	sb.WriteString("## Fraud Type Distribution\n\n")
	if len(r.FraudTypeCounts) > 0 {
		sb.WriteString("| Fraud Type | Count |\n")
		sb.WriteString("|------------|-------|\n")
		for _, row := range r.FraudTypeCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.FraudType, row.Count))
		}
	} else {
		sb.WriteString("No tokens assessed.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Risk Category Distribution\n\n")
	if len(r.RiskCategoryCounts) > 0 {
		sb.WriteString("| Risk Category | Count |\n")
		sb.WriteString("|---------------|-------|\n")
		for _, row := range r.RiskCategoryCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.RiskCategory, row.Count))
		}
	} else {
		sb.WriteString("No tokens assessed.\n")
	}
	sb.WriteString("\n")

	// Indicator summary
	sb.WriteString("## Indicator Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens with URLs | %d |\n", r.IndicatorSummary.TokensWithURLs))
	sb.WriteString(fmt.Sprintf("| Tokens with phishing keywords | %d |\n", r.IndicatorSummary.TokensWithKeywords))
	sb.WriteString(fmt.Sprintf("| Tokens with money amounts | %d |\n", r.IndicatorSummary.TokensWithAmounts))
	sb.WriteString(fmt.Sprintf("| Suspicious tokens | %d |\n", r.IndicatorSummary.SuspiciousTokens))
	sb.WriteString(fmt.Sprintf("| Extraction warnings | %d |\n", r.IndicatorSummary.ExtractionWarnings))
	sb.WriteString("\n")

	// Flagged tokens
	sb.WriteString("## Flagged Tokens\n\n")
	if len(r.FlaggedTokens) > 0 {
		sb.WriteString("| Contract | Chain | Name | Symbol | Fraud Type | Risk | Score | Matched | Combined | Indicators |\n")
		sb.WriteString("|----------|-------|------|--------|------------|------|-------|---------|----------|------------|\n")
		for _, t := range r.FlaggedTokens {
			matched := ""
			if t.MatchedName != "" || t.MatchedSymbol != "" {
				matched = fmt.Sprintf("%s (%s)", t.MatchedName, t.MatchedSymbol)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %d | %s | %.4f | %s |\n",
				t.ContractAddress, t.Blockchain, t.Name, t.Symbol,
				t.FraudType, t.RiskCategory, t.RiskScore,
				matched, t.CombinedScore, t.Indicators))
		}
	} else {
		sb.WriteString("No tokens flagged.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

package domain

// IndicatorBundle holds the text-derived scam signals for one token.
// Nil slices mean the category produced nothing and is omitted from output.
type IndicatorBundle struct {
	URLsFound          []string `json:"urls_found,omitempty"`          // lowercased, deduplicated
	DomainsFound       []string `json:"domains_found,omitempty"`       // registrable-domain form
	PhishingIndicators []string `json:"phishing_indicators,omitempty"` // matched vocabulary terms
	MoneyAmounts       []string `json:"money_amounts,omitempty"`       // literal currency substrings
	Warnings           []string `json:"warnings,omitempty"`            // non-fatal extraction failures

	// Additive risk score: +30 for URLs, +5 per keyword, +20 for any money
	// amount, clamped to [0,100]. IsSuspicious at score >= 25.
	RiskScore    int  `json:"risk_score"`
	IsSuspicious bool `json:"is_suspicious"`
}

// HasURL reports whether any URL or domain literal was found.
func (b *IndicatorBundle) HasURL() bool { return len(b.URLsFound) > 0 }

// HasKeyword reports whether any phishing vocabulary term matched.
func (b *IndicatorBundle) HasKeyword() bool { return len(b.PhishingIndicators) > 0 }

// HasMoneyAmount reports whether any monetary amount was found.
func (b *IndicatorBundle) HasMoneyAmount() bool { return len(b.MoneyAmounts) > 0 }

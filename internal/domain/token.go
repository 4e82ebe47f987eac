package domain

// FraudType is the single fraud label assigned to a token.
type FraudType string

const (
	FraudPhishing    FraudType = "phishing"
	FraudCounterfeit FraudType = "counterfeit"
	FraudRepeatScam  FraudType = "repeat_scam"
	FraudSuspicious  FraudType = "suspicious"
	FraudLegit       FraudType = "legit"
	FraudUnknown     FraudType = "unknown"
)

// RiskCategory is derived from FraudType and nothing else.
type RiskCategory string

const (
	RiskHigh    RiskCategory = "high risk"
	RiskCaution RiskCategory = "caution"
	RiskUnknown RiskCategory = "unknown"
)

// RiskCategoryFor maps a fraud label to its risk category.
// phishing/counterfeit -> high risk, suspicious -> caution, else unknown.
func RiskCategoryFor(ft FraudType) RiskCategory {
	switch ft {
	case FraudPhishing, FraudCounterfeit:
		return RiskHigh
	case FraudSuspicious:
		return RiskCaution
	default:
		return RiskUnknown
	}
}

// TokenRecord is one newly observed token as received from the listener.
// Only Name and Symbol are inspected by the engine; every other field is
// carried through to the output unmodified.
type TokenRecord struct {
	Name                  *string `json:"name"`             // token name (nullable)
	Symbol                *string `json:"symbol"`           // token symbol (nullable)
	ContractAddress       string  `json:"contract_address"` // passthrough identity
	Blockchain            string  `json:"blockchain"`       // passthrough identity
	Decimals              *int    `json:"decimals,omitempty"`
	CreatorAddress        string  `json:"creator_address,omitempty"`
	CreatedBlockTimestamp string  `json:"created_block_timestamp,omitempty"`
}

// NameText returns the name as plain text, empty when absent.
func (t *TokenRecord) NameText() string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

// SymbolText returns the symbol as plain text, empty when absent.
func (t *TokenRecord) SymbolText() string {
	if t.Symbol == nil {
		return ""
	}
	return *t.Symbol
}

// AssessedToken is the engine output for one TokenRecord. Created once per
// batch run and never mutated after the classifier's assignment pass.
type AssessedToken struct {
	TokenRecord

	FraudType    FraudType    `json:"fraud_type"`
	RiskCategory RiskCategory `json:"risk_category"`

	// Indicator bundle, flattened. Empty categories are omitted.
	URLsFound          []string `json:"urls_found,omitempty"`
	DomainsFound       []string `json:"domains_found,omitempty"`
	PhishingIndicators []string `json:"phishing_indicators,omitempty"`
	MoneyAmounts       []string `json:"money_amounts,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
	RiskScore          int      `json:"risk_score"`
	IsSuspicious       bool     `json:"is_suspicious"`

	// Best reference matches, when any reference entry scored above zero.
	SafeMatch  *MatchResult `json:"safe_match,omitempty"`
	FraudMatch *MatchResult `json:"fraud_match,omitempty"`
}

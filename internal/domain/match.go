package domain

// MatchResult is the single best-scoring reference entry for one token
// against one reference set.
type MatchResult struct {
	MatchName        string  `json:"match_name"`        // reference name as stored
	MatchSymbol      string  `json:"match_symbol"`      // reference symbol as stored
	SymbolSimilarity float64 `json:"symbol_similarity"` // in [0,1]
	NameSimilarity   float64 `json:"name_similarity"`   // in [0,1]
	CombinedScore    float64 `json:"combined_score"`    // 0.6*symbol + 0.4*name
	IsMatch          bool    `json:"is_match"`          // both fields cleared their threshold
}

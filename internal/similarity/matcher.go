// Package similarity implements fuzzy identity matching between a token and
// a reference set of known (name, symbol) pairs.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
)

// Default per-field accept thresholds.
const (
	DefaultSymbolThreshold = 0.75
	DefaultNameThreshold   = 0.75
)

// Combined-score weights. Symbols are shorter and impersonation typically
// preserves them more literally, so they weigh heavier.
const (
	symbolWeight = 0.6
	nameWeight   = 0.4
)

// Matcher scores a candidate token against reference entries. Candidates are
// selected by combined score but accepted only when both per-field
// similarities clear their independent thresholds.
type Matcher struct {
	SymbolThreshold float64
	NameThreshold   float64
}

// NewMatcher creates a Matcher with the default 0.75/0.75 thresholds.
func NewMatcher() *Matcher {
	return &Matcher{
		SymbolThreshold: DefaultSymbolThreshold,
		NameThreshold:   DefaultNameThreshold,
	}
}

// FieldSimilarity is the normalized Levenshtein similarity between two
// strings: 1 - distance/max(len). It is 0 when either side is empty,
// symmetric, and 1 for equal non-empty strings. Lengths are counted in runes.
func FieldSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// CombinedScore blends the two field similarities with the 0.6/0.4 weights.
func CombinedScore(symbolSimilarity, nameSimilarity float64) float64 {
	return symbolWeight*symbolSimilarity + nameWeight*nameSimilarity
}

// BestMatch scans every reference entry and keeps the one with the strictly
// greatest combined score; on ties the first entry seen wins, in
// reference-set order. Returns nil when no entry scores above zero (which
// covers empty reference sets and tokens with both fields absent).
// Conversely, any entry scoring above zero yields a non-nil result even when
// the thresholds are not met, so callers must gate on IsMatch rather than
// nil-check alone.
//
// Cost is O(len(refs)) string-distance computations per call.
func (m *Matcher) BestMatch(token *domain.TokenRecord, refs []domain.ReferenceEntry) *domain.MatchResult {
	tokenSymbol := strings.ToLower(token.SymbolText())
	tokenName := strings.ToLower(token.NameText())

	var best *domain.MatchResult
	bestScore := 0.0

	for _, ref := range refs {
		refSymbol := strings.ToLower(ref.Symbol)
		refName := strings.ToLower(ref.Name)

		symbolSim := FieldSimilarity(tokenSymbol, refSymbol)
		nameSim := FieldSimilarity(tokenName, refName)
		combined := CombinedScore(symbolSim, nameSim)

		if combined > bestScore {
			bestScore = combined
			best = &domain.MatchResult{
				MatchName:        ref.Name,
				MatchSymbol:      ref.Symbol,
				SymbolSimilarity: symbolSim,
				NameSimilarity:   nameSim,
				CombinedScore:    combined,
			}
		}
	}

	if best == nil {
		return nil
	}
	best.IsMatch = best.SymbolSimilarity >= m.SymbolThreshold &&
		best.NameSimilarity >= m.NameThreshold
	return best
}

// Package reference compares tokens against the safe and known-fraud
// reference sets to produce counterfeit and repeat-scam candidates.
package reference

import (
	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/similarity"
)

// Comparison holds a token's best match per reference set. Either side may
// be nil when no entry scored above zero; the two runs are independent, so a
// token may match both sets.
type Comparison struct {
	SafeMatch  *domain.MatchResult
	FraudMatch *domain.MatchResult
}

// MatchedSafe reports whether the safe-set match cleared both thresholds.
func (c Comparison) MatchedSafe() bool {
	return c.SafeMatch != nil && c.SafeMatch.IsMatch
}

// MatchedFraud reports whether the fraud-set match cleared both thresholds.
func (c Comparison) MatchedFraud() bool {
	return c.FraudMatch != nil && c.FraudMatch.IsMatch
}

// Comparator runs the similarity matcher against a safe set and a
// deduplicated fraud set. Reference sets are fixed at construction and
// scanned read-only, so a Comparator is safe for concurrent use.
//
// Equal combined scores keep the first entry in reference-set order; callers
// that need reorder-stable winners should sort the sets before construction.
type Comparator struct {
	matcher  *similarity.Matcher
	safeSet  []domain.ReferenceEntry
	fraudSet []domain.ReferenceEntry
}

// NewComparator builds a Comparator. The fraud set is deduplicated on
// (name, symbol) here so duplicate directory rows cost nothing during
// matching.
func NewComparator(matcher *similarity.Matcher, safeSet, fraudSet []domain.ReferenceEntry) *Comparator {
	return &Comparator{
		matcher:  matcher,
		safeSet:  safeSet,
		fraudSet: domain.DedupeReferenceEntries(fraudSet),
	}
}

// Compare matches one token against both reference sets. Empty sets yield
// nil matches, never an error.
func (c *Comparator) Compare(token *domain.TokenRecord) Comparison {
	return Comparison{
		SafeMatch:  c.matcher.BestMatch(token, c.safeSet),
		FraudMatch: c.matcher.BestMatch(token, c.fraudSet),
	}
}

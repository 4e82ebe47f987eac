package classifier

import (
	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/indicators"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/reference"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/similarity"
)

// Engine is the batch classification front end: indicator extraction and
// reference comparison per token, merged by Classify. Classification of each
// token is independent of every other token's; the only shared state is the
// read-only reference sets.
type Engine struct {
	extractor *indicators.Extractor
	matcher   *similarity.Matcher
}

// NewEngine creates an Engine with default matcher thresholds.
func NewEngine() *Engine {
	return &Engine{
		extractor: indicators.NewExtractor(),
		matcher:   similarity.NewMatcher(),
	}
}

// NewEngineWithThresholds creates an Engine with custom per-field accept
// thresholds.
func NewEngineWithThresholds(symbolThreshold, nameThreshold float64) *Engine {
	return &Engine{
		extractor: indicators.NewExtractor(),
		matcher: &similarity.Matcher{
			SymbolThreshold: symbolThreshold,
			NameThreshold:   nameThreshold,
		},
	}
}

// AssessBatch classifies a finite batch of tokens against the given
// reference sets and returns a new annotated batch in input order. Inputs
// are never mutated. Dominant cost is O(tokens × reference rows) string
// distances inside the comparator.
func (e *Engine) AssessBatch(tokens []domain.TokenRecord, safeSet, fraudSet []domain.ReferenceEntry) []*domain.AssessedToken {
	comparator := reference.NewComparator(e.matcher, safeSet, fraudSet)

	assessed := make([]*domain.AssessedToken, 0, len(tokens))
	for i := range tokens {
		assessed = append(assessed, e.assessOne(&tokens[i], comparator))
	}
	return assessed
}

// assessOne produces the AssessedToken for a single record.
func (e *Engine) assessOne(token *domain.TokenRecord, comparator *reference.Comparator) *domain.AssessedToken {
	bundle := e.extractor.Extract(token)
	comparison := comparator.Compare(token)

	fraudType := Classify(&bundle, comparison.MatchedFraud(), comparison.MatchedSafe())

	return &domain.AssessedToken{
		TokenRecord:  *token,
		FraudType:    fraudType,
		RiskCategory: domain.RiskCategoryFor(fraudType),

		URLsFound:          bundle.URLsFound,
		DomainsFound:       bundle.DomainsFound,
		PhishingIndicators: bundle.PhishingIndicators,
		MoneyAmounts:       bundle.MoneyAmounts,
		Warnings:           bundle.Warnings,
		RiskScore:          bundle.RiskScore,
		IsSuspicious:       bundle.IsSuspicious,

		SafeMatch:  comparison.SafeMatch,
		FraudMatch: comparison.FraudMatch,
	}
}

// Package classifier merges indicator and reference-match signals into one
// fraud label and risk category per token.
package classifier

import "github.com/On-Analytics/ERC20-Token-Listener/internal/domain"

// Classify resolves one token's signals through the fixed priority ladder:
//
//  1. URL + (keyword or money amount)        -> phishing
//  2. matched the fraudulent reference set   -> repeat_scam
//     matched the safe reference set        -> counterfeit
//  3. any single weak signal                 -> suspicious
//  4. no signal                              -> unknown
//
// Phishing outranks a confirmed reference match: an impersonator actively
// phishing is strictly worse than a passive copycat. "legit" is reserved for
// tokens explicitly cleared elsewhere and is never produced here.
//
// Total and stateless: every input resolves to exactly one label.
func Classify(bundle *domain.IndicatorBundle, matchedFraud, matchedSafe bool) domain.FraudType {
	hasURL := bundle.HasURL()
	hasKeyword := bundle.HasKeyword()
	hasAmount := bundle.HasMoneyAmount()

	switch {
	case hasURL && (hasKeyword || hasAmount):
		return domain.FraudPhishing
	case matchedFraud:
		return domain.FraudRepeatScam
	case matchedSafe:
		return domain.FraudCounterfeit
	case hasURL || hasKeyword || hasAmount:
		return domain.FraudSuspicious
	default:
		return domain.FraudUnknown
	}
}

// Package indicators derives text-based scam signals from token metadata:
// URL/domain literals, phishing vocabulary hits and monetary amounts.
package indicators

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/unicode/norm"
	"mvdan.cc/xurls/v2"

	"github.com/On-Analytics/ERC20-Token-Listener/internal/domain"
	"github.com/On-Analytics/ERC20-Token-Listener/internal/textnorm"
)

// Risk score weights. Any URL contributes a flat 30, each matched keyword 5,
// any money amount a flat 20; the total is clamped to [0,100] and the token
// counts as suspicious at 25 or above.
const (
	urlRiskWeight       = 30
	keywordRiskWeight   = 5
	moneyRiskWeight     = 20
	maxRiskScore        = 100
	suspiciousRiskScore = 25
)

// Extractor runs the three independent indicator checks over a token.
// Safe for concurrent use after construction.
type Extractor struct {
	urlPattern    *regexp.Regexp
	domainPattern *regexp.Regexp
	moneyPattern  *regexp.Regexp
}

// NewExtractor compiles the extraction patterns once.
func NewExtractor() *Extractor {
	return &Extractor{
		// Relaxed matches scheme-less literals like "free-coins.xyz".
		urlPattern:    xurls.Relaxed(),
		domainPattern: regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}\b`),
		moneyPattern:  regexp.MustCompile(`\$\s*[0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{1,2})?`),
	}
}

// Extract runs all three checks over the token's name and symbol. Each check
// is fault-isolated: a failure becomes a warning entry and never suppresses
// the other checks. Empty categories stay nil so they are omitted from
// serialized output.
func (e *Extractor) Extract(token *domain.TokenRecord) domain.IndicatorBundle {
	var bundle domain.IndicatorBundle

	name := token.NameText()
	symbol := token.SymbolText()

	// 1. URLs and registrable domains over the raw symbol+name text.
	urls := e.extractURLs(symbol, name)
	if len(urls) > 0 {
		bundle.URLsFound = urls
		domains, warnings := e.parseDomains(urls)
		bundle.DomainsFound = domains
		bundle.Warnings = append(bundle.Warnings, warnings...)
		bundle.RiskScore += urlRiskWeight
	}

	// 2. Phishing vocabulary over normalized name and symbol.
	keywords := e.findKeywords(name, symbol)
	if len(keywords) > 0 {
		bundle.PhishingIndicators = keywords
		bundle.RiskScore += keywordRiskWeight * len(keywords)
	}

	// 3. Monetary amounts over NFKC-normalized (but otherwise raw) text.
	amounts := e.extractMoneyAmounts(name, symbol)
	if len(amounts) > 0 {
		bundle.MoneyAmounts = amounts
		bundle.RiskScore += moneyRiskWeight
	}

	if bundle.RiskScore > maxRiskScore {
		bundle.RiskScore = maxRiskScore
	}
	bundle.IsSuspicious = bundle.RiskScore >= suspiciousRiskScore
	return bundle
}

// extractURLs unions the general URL extractor with the bare-domain pattern
// over "<symbol> <name>", lowercased and deduplicated.
func (e *Extractor) extractURLs(symbol, name string) []string {
	text := symbol + " " + name

	found := make(map[string]struct{})
	for _, u := range e.urlPattern.FindAllString(text, -1) {
		found[strings.ToLower(u)] = struct{}{}
	}
	for _, d := range e.domainPattern.FindAllString(text, -1) {
		found[strings.ToLower(d)] = struct{}{}
	}
	if len(found) == 0 {
		return nil
	}

	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// parseDomains reduces each URL to its registrable domain (domain plus
// public suffix, e.g. "example.com"). URLs that cannot be reduced produce a
// warning instead of failing the extraction.
func (e *Extractor) parseDomains(urls []string) ([]string, []string) {
	found := make(map[string]struct{})
	var warnings []string
	for _, raw := range urls {
		host, err := hostOf(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("domain parse failed for %q: %v", raw, err))
			continue
		}
		reg, err := publicsuffix.EffectiveTLDPlusOne(host)
		if err != nil {
			// Suffix-only or unlisted hosts carry no registrable domain.
			continue
		}
		found[strings.ToLower(reg)] = struct{}{}
	}
	if len(found) == 0 {
		return nil, warnings
	}

	domains := make([]string, 0, len(found))
	for d := range found {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains, warnings
}

// hostOf extracts the hostname from a URL literal that may lack a scheme.
func hostOf(raw string) (string, error) {
	s := raw
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	return strings.TrimSuffix(host, "."), nil
}

// findKeywords tests every vocabulary term against the independently
// normalized name and symbol. The result set is order-insensitive; it is
// returned sorted for stable output.
func (e *Extractor) findKeywords(name, symbol string) []string {
	found := make(map[string]struct{})

	scan := func(text string) {
		if text == "" {
			return
		}
		cleaned := textnorm.Normalize(text)
		for _, term := range phishingVocabulary {
			if termMatches(cleaned, term) {
				found[term] = struct{}{}
			}
		}
	}
	scan(name)
	scan(symbol)

	if len(found) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(found))
	for k := range found {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// Vocabulary terms this short ride inside ordinary English words ("get" in
// "widget", "win" in "winter"), so they only count when delimited by non-word
// runes. Longer terms keep plain substring semantics so fused obfuscation
// ("freegiveaway") still surfaces its components.
const boundaryTermLen = 3

func termMatches(text, term string) bool {
	if len(term) > boundaryTermLen {
		return strings.Contains(text, term)
	}
	return containsWord(text, term)
}

// containsWord reports whether term occurs in text bounded on both sides by a
// non-word rune or the text edge.
func containsWord(text, term string) bool {
	for off := 0; ; {
		i := strings.Index(text[off:], term)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(term)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		off = start + 1
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// extractMoneyAmounts matches dollar amounts against the NFKC-normalized
// (not pipeline-normalized) name and symbol. Matches keep their literal form
// minus internal spaces, and repeated identical amounts are each retained.
func (e *Extractor) extractMoneyAmounts(name, symbol string) []string {
	var amounts []string
	scan := func(text string) {
		if text == "" {
			return
		}
		folded := norm.NFKC.String(text)
		for _, m := range e.moneyPattern.FindAllString(folded, -1) {
			amounts = append(amounts, strings.ReplaceAll(m, " ", ""))
		}
	}
	scan(name)
	scan(symbol)
	return amounts
}

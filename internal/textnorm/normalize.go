// Package textnorm canonicalizes token name/symbol text so that homoglyph
// and spacing obfuscation cannot hide scam vocabulary from matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	disruptivePunct = regexp.MustCompile(`[!\[\]#]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// cyrillicOffset maps А..я (U+0410–U+044F) onto the visually similar
// Latin-1 range starting at U+00C0.
const cyrillicOffset = 848

// Normalize canonicalizes arbitrary text. It is total, deterministic and
// idempotent: empty input yields empty output, and already-normalized text
// passes through unchanged.
//
// Steps, in order: Unicode NFKC folding, Cyrillic homoglyph folding,
// lowercasing, disruptive-punctuation removal, whitespace collapsing,
// spaced-single-letter collapsing ("F R E E" -> "free"), and stripping of
// symbols that sit between word characters while preserving domain-like
// tokens such as "free-coins.xyz".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := norm.NFKC.String(text)
	s = foldCyrillic(s)
	s = strings.ToLower(s)
	s = disruptivePunct.ReplaceAllString(s, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = collapseSpacedLetters(s)
	s = stripBetweenWords(s)
	s = trimEdges(s)
	return strings.TrimSpace(s)
}

// foldCyrillic remaps Cyrillic letters that mimic Latin glyphs by a fixed
// code-point offset.
func foldCyrillic(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x0410 && r <= 0x044F {
			return r - cyrillicOffset
		}
		return r
	}, s)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIAlnumDotDash(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '.' || r == '-'
}

// isWordRune mirrors the \w character class over Unicode text.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

// collapseSpacedLetters removes the whitespace after a lone letter that is
// followed by another letter, so "f r e e giveaway" becomes "freegiveaway".
// Only alphabetic singletons participate; multi-letter words keep their
// separating spaces.
func collapseSpacedLetters(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if !isASCIILetter(r) {
			continue
		}
		if i > 0 && isWordRune(runes[i-1]) {
			// not a singleton: previous rune belongs to the same word
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 && j < len(runes) && isASCIILetter(runes[j]) {
			i = j - 1 // drop the whitespace run
		}
	}
	return b.String()
}

// stripBetweenWords replaces any run of characters outside [\w.-] with a
// single space when the run is bounded by word characters on both sides.
// Dots and hyphens survive so domain names stay intact.
func stripBetweenWords(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(runes) {
		r := runes[i]
		if isWordRune(r) || r == '.' || r == '-' {
			b.WriteRune(r)
			i++
			continue
		}
		j := i
		for j < len(runes) && !isWordRune(runes[j]) && runes[j] != '.' && runes[j] != '-' {
			j++
		}
		if i > 0 && isWordRune(runes[i-1]) && j < len(runes) && isWordRune(runes[j]) {
			b.WriteRune(' ')
		} else {
			b.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return b.String()
}

// trimEdges strips leading characters outside [\w.-] and trailing characters
// outside ASCII [a-zA-Z0-9.-].
func trimEdges(s string) string {
	runes := []rune(s)
	start := 0
	for start < len(runes) {
		r := runes[start]
		if isWordRune(r) || r == '.' || r == '-' {
			break
		}
		start++
	}
	end := len(runes)
	for end > start && !isASCIIAlnumDotDash(runes[end-1]) {
		end--
	}
	return string(runes[start:end])
}

// Package normalize cleans vendor-supplied product text into display form.
//
// Inventory exports mix ALL-CAPS legacy feeds with mixed-case manual entries.
// Naive title-casing would mangle caliber notation ("9mm", ".308"), grain
// weights ("115gr") and ammunition-type acronyms ("FMJ", "JHP"), so those are
// carved out as exceptions before generic capitalization.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// acronyms is the fixed set of tokens that stay fully uppercased.
// Keyed by the token's uppercase form. Static table, not extensible.
//
//nolint:gochecknoglobals // Static lookup table for title casing
var acronyms = map[string]bool{
	"CCI": true, "FMJ": true, "JHP": true, "JSP": true, "TMJ": true,
	"HST": true, "PSP": true, "LR": true, "WMR": true, "ACP": true,
	"NATO": true, "HP": true, "SP": true, "HMR": true,
	"V-MAX": true, "VMAX": true,
}

var (
	// Runs of whitespace, collapsed to a single space.
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Vendor packaging fragments like "50/10" or "500/10" - rounds per box
	// over boxes per case, not product-identifying text.
	packagingRe = regexp.MustCompile(`\b\d{2,3}/\d{1,3}\b`)
	// Caliber notation: "9 MM", "9mm" -> "9mm".
	caliberMMRe = regexp.MustCompile(`(?i)\b(\d{2,3})\s*mm\b`)
	// Grain notation: "115 GR" -> "115gr".
	grainRe = regexp.MustCompile(`(?i)\b(\d{2,3})\s*gr\b`)

	// Token classifiers for smart title casing.
	millimeterTokenRe = regexp.MustCompile(`^\d+mm$`)
	dotCaliberTokenRe = regexp.MustCompile(`^\.\d+`)
	measurementTokenRe = regexp.MustCompile(`^\d+(\.\d+)?(gr|grain|in)$`)
)

// Title normalizes a raw product title into display form.
//
// The pipeline, in order: collapse whitespace, strip packaging fragments,
// strip a duplicated manufacturer prefix, re-case uppercase-heavy strings
// with SmartTitle, and compact caliber/grain notation. The result is never
// empty; a string that normalizes away entirely becomes "Untitled".
//
// Title is idempotent on its own output.
func Title(raw, manufacturer string) string {
	s := collapse(raw)

	s = strings.TrimSpace(packagingRe.ReplaceAllString(s, ""))

	// Vendors often repeat the manufacturer at the front of the title.
	// Match and slice on the same byte length: case folding can change a
	// string's length, so an uppercased comparison must not decide how many
	// bytes to cut from the original.
	if manufacturer != "" && len(s) >= len(manufacturer) &&
		strings.EqualFold(s[:len(manufacturer)], manufacturer) {
		s = strings.Trim(s[len(manufacturer):], " -")
	}

	// Legacy feeds arrive fully uppercased; re-case those but leave
	// hand-entered mixed-case titles alone.
	if upperCount(s) > lowerCount(s) {
		s = SmartTitle(strings.ToLower(s))
	}

	s = caliberMMRe.ReplaceAllString(s, "${1}mm")
	s = grainRe.ReplaceAllString(s, "${1}gr")

	s = collapse(s)
	if s == "" {
		return "Untitled"
	}
	return s
}

// Feature normalizes a descriptive feature fragment: whitespace collapse
// followed by smart title casing. No packaging or manufacturer stripping.
func Feature(raw string) string {
	return SmartTitle(collapse(raw))
}

// SmartTitle title-cases a string while preserving domain notation.
// The string is split on whitespace, hyphen, and slash (delimiters are kept
// in the output). Acronyms are uppercased, caliber and measurement tokens
// are lowercased, ".308"-style tokens pass through untouched, and everything
// else is capitalized.
func SmartTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, tok := range splitTokens(s) {
		if tok.delim {
			b.WriteString(tok.text)
			continue
		}
		b.WriteString(fixToken(tok.text))
	}
	return b.String()
}

// fixToken applies the casing rule for a single non-delimiter token.
func fixToken(tok string) string {
	if acronyms[strings.ToUpper(tok)] {
		return strings.ToUpper(tok)
	}
	lower := strings.ToLower(tok)
	if millimeterTokenRe.MatchString(lower) {
		return lower
	}
	if dotCaliberTokenRe.MatchString(tok) {
		return tok
	}
	if measurementTokenRe.MatchString(lower) {
		return lower
	}
	return capitalize(tok)
}

// token is a run of either delimiter or word characters from splitTokens.
type token struct {
	text  string
	delim bool
}

// splitTokens splits on whitespace runs, hyphens, and slashes, keeping the
// delimiters as their own tokens so the original separators survive.
func splitTokens(s string) []token {
	var toks []token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			toks = append(toks, token{text: string(runes[i:j]), delim: true})
			i = j
		case r == '-' || r == '/':
			toks = append(toks, token{text: string(r), delim: true})
			i++
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) && runes[j] != '-' && runes[j] != '/' {
				j++
			}
			toks = append(toks, token{text: string(runes[i:j])})
			i = j
		}
	}
	return toks
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// collapse trims the string and collapses internal whitespace runs to a
// single space.
func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func upperCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func lowerCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			n++
		}
	}
	return n
}

// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// Slugify converts a display string to a URL-safe slug, used for category
// anchors and picklist values in the rendered page.
//
//	"Centerfire Ammo"  → "centerfire-ammo"
//	"Optics/Sights"    → "optics-sights"
//	"Café Décor"       → "cafe-decor"
func Slugify(s string) string {
	// Decompose accented characters, then drop the non-ASCII remainder.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and strips diacritics so that searches are accent-insensitive.
// Turkish letters fold to their ASCII base: "İSTANBUL", "Istanbul" and "ıstanbul" all become "istanbul",
// "çşğöü" becomes "csgou".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}

	stripped = strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, stripped)

	return cases.Fold().String(stripped)
}

// containsNormalized reports whether any of the fields contains the already normalized needle.
func containsNormalized(needle string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(Normalize(field), needle) {
			return true
		}
	}

	return false
}

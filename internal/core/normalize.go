package core

// normalize.go provides text normalization for spreadsheet cells and lookup keys.
//
// These functions handle the messy reality of ERP spreadsheet exports:
//   - Excel formula prefixes (="00123") used to preserve leading zeros
//   - Stray surrounding quotes left by CSV round-trips
//   - Accented Portuguese headers ("Código", "Descrição") that must match
//     their unaccented spellings
//   - Codes typed by hand or decoded from barcodes with uneven casing and
//     surrounding whitespace

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// NormalizeKey canonicalizes text for matching: trim, lowercase, and fold
// accents so "Código" and "CODIGO " produce the same key. Both header
// aliases and lookup queries go through this, which is what makes typed,
// scanned, and spreadsheet-sourced codes comparable.
func NormalizeKey(s string) string {
	return stripAccents(strings.ToLower(strings.TrimSpace(s)))
}

// stripAccents decomposes to NFD, drops combining marks, and recomposes.
// On transform failure the input is returned unchanged; a key that keeps
// its accents still matches itself.
func stripAccents(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= unicode.MaxASCII {
			return false
		}
	}
	return true
}

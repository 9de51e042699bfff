package gallery

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics strips diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// LabelFromFilename derives the person label from an enrollment image file
// name: the part of the stem before the first underscore, or the whole stem
// if there is none. "ALICE_1.jpg" and "ALICE_2.jpg" both enroll as "ALICE".
// Case is preserved; diacritics are folded so labels stay ASCII-comparable.
func LabelFromFilename(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if i := strings.Index(stem, "_"); i >= 0 {
		stem = stem[:i]
	}
	return removeDiacritics(stem)
}

// Package normalize provides utilities for normalizing noisy catalog data
// before it is sent to the external metadata search.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes characters and strips combining marks, so
// "Pérez-Reverte" becomes "Perez-Reverte". Imported titles are frequently
// non-English and pasted with inconsistent accents; the external search
// matches better on the folded form.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold strips diacritics from s. Returns s unchanged if folding fails.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// Query cleans a free-text query term: trims, folds diacritics, and
// collapses internal whitespace runs to single spaces.
func Query(s string) string {
	return strings.Join(strings.Fields(Fold(s)), " ")
}

// languageCodes maps ISO 639-2 codes and English language names to the
// ISO 639-1 codes the matcher compares against.
var languageCodes = map[string]string{
	"eng": "en", "spa": "es", "fra": "fr", "fre": "fr", "deu": "de",
	"ger": "de", "ita": "it", "por": "pt", "nld": "nl", "dut": "nl",
	"rus": "ru", "jpn": "ja", "zho": "zh", "chi": "zh", "kor": "ko",
	"ara": "ar", "hin": "hi", "pol": "pl", "swe": "sv", "tur": "tr",

	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "korean": "ko", "arabic": "ar",
}

// Language normalizes a language identifier to a two-letter ISO 639-1
// code where possible. Unrecognized values are lowercased and returned.
func Language(s string) string {
	l := strings.ToLower(strings.TrimSpace(s))
	if code, ok := languageCodes[l]; ok {
		return code
	}
	// Already a 639-1 code, possibly with a region suffix like "en-US".
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	return l
}

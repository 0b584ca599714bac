package lexicon

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD, drops combining marks, and recomposes.
// "Châteauneuf" → "Chateauneuf".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics and lowercases s, preserving word boundaries.
// This is the normalisation applied to raw user input before anchor
// extraction and to all vocabulary comparisons.
func Fold(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Key produces the normalised lookup key used by the appellation tables:
// folded, with spaces, hyphens, apostrophes, and periods removed.
// "Saint-Émilion" and "saint emilion" share the key "saintemilion".
func Key(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch r {
		case ' ', '-', '\'', '’', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

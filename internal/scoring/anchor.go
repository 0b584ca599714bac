// Package scoring extracts weighted evidence anchors from raw user input and
// scores a model's identification against them. The score reflects how much
// of what the user verifiably said the model's answer confirms, bounded by
// how much the user actually said.
package scoring

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/cellarbook/vinident/internal/lexicon"
)

// AnchorKind classifies a unit of evidence extracted from user input.
type AnchorKind string

const (
	AnchorVintage     AnchorKind = "vintage"
	AnchorType        AnchorKind = "type"
	AnchorGrape       AnchorKind = "grape"
	AnchorRegion      AnchorKind = "region"
	AnchorCountry     AnchorKind = "country"
	AnchorAppellation AnchorKind = "appellation"
	AnchorNameToken   AnchorKind = "name_token"
)

// Weight returns the fixed evidence weight for an anchor kind. Free-text
// name tokens weigh the most: they are the user's own words for the wine.
func (k AnchorKind) Weight() float64 {
	switch k {
	case AnchorVintage:
		return 0.8
	case AnchorType:
		return 0.3
	case AnchorGrape, AnchorRegion, AnchorAppellation:
		return 0.6
	case AnchorCountry:
		return 0.4
	case AnchorNameToken:
		return 1.0
	default:
		return 0
	}
}

// Anchor is an immutable unit of evidence. Text is the folded form as
// matched in the input; Canonical carries the vocabulary spelling when the
// anchor came from a table lookup.
type Anchor struct {
	Kind      AnchorKind
	Text      string
	Canonical string
	Weight    float64
}

// TotalWeight sums the weights of a set of anchors.
func TotalWeight(anchors []Anchor) float64 {
	var total float64
	for _, a := range anchors {
		total += a.Weight
	}
	return total
}

var vintageRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Minimum folded-token length before a fuzzy appellation lookup is
// attempted. Shorter tokens find spurious neighbours within the edit
// distance ceiling.
const minFuzzyAppellationLen = 5

// Extract derives the anchor set from raw user input. Extraction reads only
// the static vocabulary, so the same input always yields the same anchors.
//
// Pass 1 consumes a bounded 4-digit vintage and all multi-word vocabulary
// phrases, longest first, blanking each match so later passes cannot
// re-match inside it. Pass 2 walks the remaining tokens through the
// vocabulary in fixed order; what survives unmatched and is at least three
// characters long becomes a free-standing name token.
func Extract(ctx context.Context, lex *lexicon.Lexicon, text string) []Anchor {
	working := lexicon.Fold(text)
	var anchors []Anchor

	add := func(kind AnchorKind, text, canonical string) {
		anchors = append(anchors, Anchor{
			Kind:      kind,
			Text:      text,
			Canonical: canonical,
			Weight:    kind.Weight(),
		})
	}

	if m := vintageRe.FindString(working); m != "" {
		year, _ := strconv.Atoi(m)
		if year >= 1900 && year <= time.Now().Year()+2 {
			add(AnchorVintage, m, m)
			working = strings.Replace(working, m, " ", 1)
		}
	}

	for _, ph := range lex.Phrases() {
		if !strings.Contains(working, ph.Folded) {
			continue
		}
		switch ph.Kind {
		case lexicon.PhraseGrape:
			add(AnchorGrape, ph.Folded, ph.Canonical)
		case lexicon.PhraseRegion:
			add(AnchorRegion, ph.Folded, ph.Canonical)
		case lexicon.PhraseCountry:
			add(AnchorCountry, ph.Folded, ph.Canonical)
		}
		working = strings.ReplaceAll(working, ph.Folded, " ")
	}

	for _, tok := range strings.FieldsFunc(working, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(tok) < 2 {
			continue
		}
		if g, ok := lex.Grape(tok); ok {
			add(AnchorGrape, tok, g.Name)
			continue
		}
		if r, ok := lex.Region(tok); ok {
			add(AnchorRegion, tok, r.Name)
			continue
		}
		if c, ok := lex.Country(tok); ok {
			add(AnchorCountry, tok, c)
			continue
		}
		if t, ok := lex.WineType(tok); ok {
			add(AnchorType, tok, string(t))
			continue
		}
		// Stop-words are checked before the fuzzy appellation pass; edit
		// distance 3 would otherwise pull common filler words into the
		// appellation table.
		if lex.IsStopWord(tok) {
			continue
		}
		if app, ok := lex.ExactAppellation(tok); ok {
			add(AnchorAppellation, tok, app.Name)
			continue
		}
		if len(tok) >= minFuzzyAppellationLen {
			if app, ok := lex.Appellation(ctx, tok); ok {
				add(AnchorAppellation, tok, app.Name)
				continue
			}
		}
		if len(tok) >= 3 {
			add(AnchorNameToken, tok, tok)
		}
	}

	return anchors
}

// Package lexicon holds the static wine vocabulary: regions, countries,
// grapes, wine-type aliases, and appellations with their parent regions.
//
// The tables are immutable after construction; a Lexicon is safe for
// unlocked concurrent reads. Anchor extraction depends only on these tables,
// so the same input always yields the same anchor set.
package lexicon

import (
	"context"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/cellarbook/vinident/internal/model"
)

// maxEditDistance is the Levenshtein ceiling for fuzzy appellation lookups.
const maxEditDistance = 3

// Resolver is an optional backing store consulted for exact appellation
// lookups before the static table (e.g., a pg-backed extended set).
// Implementations return (nil, nil) on a miss.
type Resolver interface {
	ResolveAppellation(ctx context.Context, key string) (*Appellation, error)
}

// Lexicon is the lexical knowledge base. Construct with Default or New; the
// zero value is not usable.
type Lexicon struct {
	regions      []Region
	grapes       []Grape
	appellations []Appellation

	regionByKey      map[string]Region
	grapeByKey       map[string]Grape
	appellationByKey map[string]int // index into appellations
	countryByKey     map[string]string

	// phrases holds every multi-word grape/region/country string, longest
	// first, for phrase-pass anchor extraction.
	phrases []Phrase

	resolver Resolver
}

// PhraseKind says which table a multi-word phrase came from.
type PhraseKind int

const (
	PhraseGrape PhraseKind = iota
	PhraseRegion
	PhraseCountry
)

// Phrase is a multi-word vocabulary entry matched in the first extraction pass.
type Phrase struct {
	Kind PhraseKind
	// Folded is the diacritic-stripped lowercase form matched against input.
	Folded string
	// Canonical is the table spelling.
	Canonical string
}

// Option configures a Lexicon during construction.
type Option func(*Lexicon)

// WithResolver attaches a backing store for extended appellation lookups.
func WithResolver(r Resolver) Option {
	return func(l *Lexicon) { l.resolver = r }
}

// WithAppellations appends extra appellation entries (e.g., loaded from a
// YAML extension file) after the built-in table.
func WithAppellations(extra []Appellation) Option {
	return func(l *Lexicon) {
		l.appellations = append(l.appellations, extra...)
	}
}

var defaultLexicon = New()

// Default returns the shared built-in lexicon. It is immutable and safe for
// concurrent use without locking.
func Default() *Lexicon { return defaultLexicon }

// New builds a Lexicon from the built-in tables plus any options.
func New(opts ...Option) *Lexicon {
	l := &Lexicon{
		regions:      regions,
		grapes:       grapes,
		appellations: appellations,
	}
	for _, o := range opts {
		o(l)
	}

	l.regionByKey = make(map[string]Region, len(l.regions))
	for _, r := range l.regions {
		l.regionByKey[Key(r.Name)] = r
	}
	l.grapeByKey = make(map[string]Grape, len(l.grapes))
	for _, g := range l.grapes {
		l.grapeByKey[Key(g.Name)] = g
	}
	l.appellationByKey = make(map[string]int, len(l.appellations))
	for i, a := range l.appellations {
		k := Key(a.Name)
		if _, exists := l.appellationByKey[k]; !exists {
			l.appellationByKey[k] = i
		}
	}
	l.countryByKey = make(map[string]string, len(countryAliases))
	for alias, canonical := range countryAliases {
		l.countryByKey[Key(alias)] = canonical
	}

	l.buildPhrases()
	return l
}

func (l *Lexicon) buildPhrases() {
	add := func(kind PhraseKind, name string) {
		folded := Fold(name)
		if !strings.ContainsAny(folded, " -") {
			return
		}
		// Hyphenated names match with spaces too.
		folded = strings.ReplaceAll(folded, "-", " ")
		l.phrases = append(l.phrases, Phrase{Kind: kind, Folded: folded, Canonical: name})
	}
	for _, g := range l.grapes {
		add(PhraseGrape, g.Name)
	}
	for _, r := range l.regions {
		add(PhraseRegion, r.Name)
	}
	var multiWordCountries []string
	for alias := range countryAliases {
		if strings.Contains(alias, " ") {
			multiWordCountries = append(multiWordCountries, alias)
		}
	}
	// Map iteration order is random; sort so anchor extraction is deterministic.
	sort.Strings(multiWordCountries)
	for _, alias := range multiWordCountries {
		l.phrases = append(l.phrases, Phrase{
			Kind:      PhraseCountry,
			Folded:    Fold(alias),
			Canonical: countryAliases[alias],
		})
	}
	// Longest first so "cabernet sauvignon" wins over "sauvignon blanc"
	// never re-matching inside a consumed span.
	sort.SliceStable(l.phrases, func(i, j int) bool {
		return len(l.phrases[i].Folded) > len(l.phrases[j].Folded)
	})
}

// Phrases returns the multi-word vocabulary, longest first.
func (l *Lexicon) Phrases() []Phrase { return l.phrases }

// Grape looks up a variety by name (any casing/accents). Single words only
// match single-word varieties.
func (l *Lexicon) Grape(s string) (Grape, bool) {
	g, ok := l.grapeByKey[Key(s)]
	return g, ok
}

// GrapeColorOf returns the berry colour for a variety, if known.
func (l *Lexicon) GrapeColorOf(s string) (GrapeColor, bool) {
	g, ok := l.grapeByKey[Key(s)]
	if !ok {
		return "", false
	}
	return g.Color, true
}

// Region looks up a top-level region by name.
func (l *Lexicon) Region(s string) (Region, bool) {
	r, ok := l.regionByKey[Key(s)]
	return r, ok
}

// Country canonicalises a country name or demonym ("usa" → "United States").
func (l *Lexicon) Country(s string) (string, bool) {
	c, ok := l.countryByKey[Key(s)]
	return c, ok
}

// WineType canonicalises a style word ("rosso" → Red).
func (l *Lexicon) WineType(s string) (model.WineType, bool) {
	t, ok := wineTypeAliases[Fold(strings.TrimSpace(s))]
	return t, ok
}

// IsStopWord reports whether a folded token is discarded when it matches
// nothing in the vocabulary.
func (l *Lexicon) IsStopWord(tok string) bool { return stopWords[tok] }

// Appellation resolves an appellation name: backing store first when
// configured, then exact static-table key, then Levenshtein within
// maxEditDistance (lowest distance wins, ties broken by table order).
func (l *Lexicon) Appellation(ctx context.Context, s string) (*Appellation, bool) {
	key := Key(s)
	if key == "" {
		return nil, false
	}

	if l.resolver != nil {
		if a, err := l.resolver.ResolveAppellation(ctx, key); err == nil && a != nil {
			return a, true
		}
		// Resolver misses and errors both fall through to the static table.
	}

	if i, ok := l.appellationByKey[key]; ok {
		a := l.appellations[i]
		return &a, true
	}

	best := -1
	bestDist := maxEditDistance + 1
	for i := range l.appellations {
		d := matchr.Levenshtein(key, Key(l.appellations[i].Name))
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 || bestDist > maxEditDistance {
		return nil, false
	}
	a := l.appellations[best]
	return &a, true
}

// ExactAppellation resolves only on the normalised key, with no fuzzy pass.
// Used by region roll-up, where a near-miss must not rewrite the region.
func (l *Lexicon) ExactAppellation(s string) (*Appellation, bool) {
	if i, ok := l.appellationByKey[Key(s)]; ok {
		a := l.appellations[i]
		return &a, true
	}
	return nil, false
}

// RollUp is the result of normalising a place name to its parent region.
type RollUp struct {
	Region      string
	Country     string
	Appellation string // empty when the input was already a top-level region
}

// RollUpRegion normalises a region string: if it names a known appellation
// (and not a top-level region) whose parent differs, the parent region is
// returned and the original string retained as the appellation.
// Idempotent on canonical regions: RollUpRegion("Bordeaux") keeps Bordeaux
// with no appellation.
func (l *Lexicon) RollUpRegion(s string) RollUp {
	if r, ok := l.Region(s); ok {
		return RollUp{Region: r.Name, Country: r.Country}
	}
	if a, ok := l.ExactAppellation(s); ok && !strings.EqualFold(a.Region, s) {
		return RollUp{Region: a.Region, Country: a.Country, Appellation: a.Name}
	}
	return RollUp{Region: s}
}

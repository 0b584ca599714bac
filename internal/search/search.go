// Package search finds disambiguation candidates for a parsed wine record by
// querying the user's own collection and the shared appellation reference
// concurrently.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
	"github.com/cellarbook/vinident/internal/store"
)

// defaultLimit caps the merged candidate list when no limit is configured.
const defaultLimit = 5

// Field weights for scoring a collection wine against the parsed record. They
// sum to 1 so the weighted part spans the upper half of the score range.
const (
	weightProducer = 0.30
	weightWineName = 0.20
	weightVintage  = 0.20
	weightRegion   = 0.15
	weightType     = 0.10
	weightCountry  = 0.05
)

// Searcher queries both candidate sources. Either store may be nil, in which
// case only the other is consulted.
type Searcher struct {
	collection store.CollectionStore
	reference  store.ReferenceStore
	lex        *lexicon.Lexicon
	limit      int
}

// New creates a Searcher. limit <= 0 selects the default candidate cap.
func New(collection store.CollectionStore, reference store.ReferenceStore, lex *lexicon.Lexicon, limit int) *Searcher {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Searcher{collection: collection, reference: reference, lex: lex, limit: limit}
}

// FindCandidates returns merged candidates from both sources, highest
// confidence first, capped at the configured limit. A failing source degrades
// the search to the other; only both failing is an error.
func (s *Searcher) FindCandidates(ctx context.Context, parsed *model.ParsedWineRecord) ([]model.Candidate, error) {
	query := s.queryFor(parsed)
	if query == "" {
		return nil, nil
	}

	var (
		fromCollection []model.Candidate
		fromReference  []model.Candidate
		errCollection  error
		errReference   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fromCollection, errCollection = s.searchCollection(gctx, query, parsed)
		return nil
	})
	g.Go(func() error {
		fromReference, errReference = s.searchReference(gctx, query)
		return nil
	})
	g.Wait() //nolint:errcheck // goroutines report through the named errors

	if errCollection != nil && errReference != nil {
		return nil, errCollection
	}
	if errCollection != nil {
		zap.L().Warn("collection search failed, using reference only", zap.Error(errCollection))
	}
	if errReference != nil {
		zap.L().Warn("reference search failed, using collection only", zap.Error(errReference))
	}

	merged := append(fromCollection, fromReference...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	if len(merged) > s.limit {
		merged = merged[:s.limit]
	}
	return merged, nil
}

// queryFor picks the most identifying populated field as the substring query.
func (s *Searcher) queryFor(parsed *model.ParsedWineRecord) string {
	if parsed == nil {
		return ""
	}
	for _, f := range []string{parsed.Producer, parsed.WineName, parsed.Appellation, parsed.Region} {
		if strings.TrimSpace(f) != "" {
			return f
		}
	}
	return ""
}

func (s *Searcher) searchCollection(ctx context.Context, query string, parsed *model.ParsedWineRecord) ([]model.Candidate, error) {
	if s.collection == nil {
		return nil, nil
	}
	wines, err := s.collection.SearchWines(ctx, query, s.limit*2)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(wines))
	for i := range wines {
		w := &wines[i]
		candidates = append(candidates, model.Candidate{
			Source:     model.CandidateSourceCollection,
			Confidence: s.scoreWine(w, parsed),
			Data:       w.Record(),
		})
	}
	return candidates, nil
}

// scoreWine rates a collection wine against the parsed record: a substring
// hit is worth 50, field agreement fills the remaining half.
func (s *Searcher) scoreWine(w *store.CollectionWine, parsed *model.ParsedWineRecord) float64 {
	var weighted float64

	weighted += weightProducer * similarity(lexicon.Fold(w.Producer), lexicon.Fold(parsed.Producer))
	weighted += weightWineName * similarity(lexicon.Fold(w.WineName), lexicon.Fold(parsed.WineName))
	if w.Vintage != nil && parsed.Vintage != nil && *w.Vintage == *parsed.Vintage {
		weighted += weightVintage
	}
	weighted += weightRegion * similarity(lexicon.Fold(w.Region), lexicon.Fold(parsed.Region))
	if w.WineType != "" && w.WineType == parsed.WineType {
		weighted += weightType
	}
	if s.countryOf(w.Country) != "" && s.countryOf(w.Country) == s.countryOf(parsed.Country) {
		weighted += weightCountry
	}

	return 50 + weighted*50
}

func (s *Searcher) countryOf(name string) string {
	if canonical, ok := s.lex.Country(name); ok {
		return canonical
	}
	return strings.TrimSpace(name)
}

func (s *Searcher) searchReference(ctx context.Context, query string) ([]model.Candidate, error) {
	if s.reference == nil {
		return nil, nil
	}
	apps, err := s.reference.SearchAppellations(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}

	folded := lexicon.Fold(query)
	candidates := make([]model.Candidate, 0, len(apps))
	for _, a := range apps {
		rec := &model.ParsedWineRecord{
			Region:      a.Region,
			Country:     a.Country,
			Appellation: a.Name,
			Grapes:      append([]string(nil), a.Grapes...),
		}
		if len(a.WineTypes) == 1 {
			rec.WineType = a.WineTypes[0]
		}
		candidates = append(candidates, model.Candidate{
			Source:     model.CandidateSourceReference,
			Confidence: similarity(lexicon.Fold(a.Name), folded) * 100,
			Data:       rec,
		})
	}
	return candidates, nil
}

// similarity is normalized Levenshtein similarity in [0,1].
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(longest)
}

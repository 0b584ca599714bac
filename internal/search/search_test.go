package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
	"github.com/cellarbook/vinident/internal/store"
)

type fakeCollection struct {
	wines []store.CollectionWine
	err   error
}

func (f *fakeCollection) AddWine(context.Context, *model.ParsedWineRecord) (*store.CollectionWine, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeCollection) GetWine(context.Context, string) (*store.CollectionWine, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeCollection) DeleteWine(context.Context, string) error { return nil }
func (f *fakeCollection) Migrate(context.Context) error            { return nil }
func (f *fakeCollection) Close() error                             { return nil }

func (f *fakeCollection) SearchWines(_ context.Context, _ string, _ int) ([]store.CollectionWine, error) {
	return f.wines, f.err
}

type fakeReference struct {
	apps []lexicon.Appellation
	err  error
}

func (f *fakeReference) ResolveAppellation(context.Context, string) (*lexicon.Appellation, error) {
	return nil, nil
}
func (f *fakeReference) UpsertAppellations(context.Context, []lexicon.Appellation) (int64, error) {
	return 0, nil
}
func (f *fakeReference) Migrate(context.Context) error { return nil }
func (f *fakeReference) Close() error                  { return nil }

func (f *fakeReference) SearchAppellations(_ context.Context, _ string, _ int) ([]lexicon.Appellation, error) {
	return f.apps, f.err
}

func margauxParsed() *model.ParsedWineRecord {
	vintage := 2019
	return &model.ParsedWineRecord{
		Producer: "Château Margaux",
		Vintage:  &vintage,
		Region:   "Bordeaux",
		Country:  "France",
		WineType: model.WineTypeRed,
	}
}

func TestFindCandidates_MergesAndSorts(t *testing.T) {
	t.Parallel()

	vintage := 2019
	collection := &fakeCollection{wines: []store.CollectionWine{
		{ID: "1", Producer: "Château Margaux", Vintage: &vintage, Region: "Bordeaux", Country: "France", WineType: model.WineTypeRed},
		{ID: "2", Producer: "Château Palmer", Region: "Bordeaux", Country: "France"},
	}}
	reference := &fakeReference{apps: []lexicon.Appellation{
		{Name: "Margaux", Region: "Bordeaux", Country: "France", WineTypes: []model.WineType{model.WineTypeRed}},
	}}

	s := New(collection, reference, lexicon.Default(), 5)
	candidates, err := s.FindCandidates(context.Background(), margauxParsed())
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// An exact collection match outranks everything else.
	assert.Equal(t, model.CandidateSourceCollection, candidates[0].Source)
	assert.Equal(t, "Château Margaux", candidates[0].Data.Producer)
	assert.InDelta(t, 90, candidates[0].Confidence, 0.5)

	for i := 1; i < len(candidates); i++ {
		assert.LessOrEqual(t, candidates[i].Confidence, candidates[i-1].Confidence)
	}
}

func TestFindCandidates_ReferenceCarriesAppellationData(t *testing.T) {
	t.Parallel()

	reference := &fakeReference{apps: []lexicon.Appellation{
		{Name: "Margaux", Region: "Bordeaux", Country: "France", Grapes: []string{"Cabernet Sauvignon"}, WineTypes: []model.WineType{model.WineTypeRed}},
	}}

	s := New(nil, reference, lexicon.Default(), 5)
	candidates, err := s.FindCandidates(context.Background(), &model.ParsedWineRecord{Appellation: "Margaux"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, model.CandidateSourceReference, c.Source)
	assert.Equal(t, "Bordeaux", c.Data.Region)
	assert.Equal(t, model.WineTypeRed, c.Data.WineType)
	assert.InDelta(t, 100, c.Confidence, 0.5)
}

func TestFindCandidates_FailedSourceDegrades(t *testing.T) {
	t.Parallel()

	collection := &fakeCollection{err: errors.New("disk gone")}
	reference := &fakeReference{apps: []lexicon.Appellation{
		{Name: "Rioja", Region: "Rioja", Country: "Spain"},
	}}

	s := New(collection, reference, lexicon.Default(), 5)
	candidates, err := s.FindCandidates(context.Background(), &model.ParsedWineRecord{Producer: "Rioja Alta"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, model.CandidateSourceReference, candidates[0].Source)
}

func TestFindCandidates_BothSourcesFailing(t *testing.T) {
	t.Parallel()

	s := New(&fakeCollection{err: errors.New("disk gone")}, &fakeReference{err: errors.New("pg down")}, lexicon.Default(), 5)
	_, err := s.FindCandidates(context.Background(), &model.ParsedWineRecord{Producer: "Anything"})
	require.Error(t, err)
}

func TestFindCandidates_CapsAtLimit(t *testing.T) {
	t.Parallel()

	var wines []store.CollectionWine
	for i := 0; i < 8; i++ {
		wines = append(wines, store.CollectionWine{Producer: "Bodega Catena"})
	}

	s := New(&fakeCollection{wines: wines}, nil, lexicon.Default(), 3)
	candidates, err := s.FindCandidates(context.Background(), &model.ParsedWineRecord{Producer: "Catena"})
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestFindCandidates_EmptyRecord(t *testing.T) {
	t.Parallel()

	s := New(&fakeCollection{}, &fakeReference{}, lexicon.Default(), 5)
	candidates, err := s.FindCandidates(context.Background(), &model.ParsedWineRecord{})
	require.NoError(t, err)
	assert.Nil(t, candidates)
}

func TestScoreWine_FieldContributions(t *testing.T) {
	t.Parallel()

	s := New(nil, nil, lexicon.Default(), 5)
	parsed := margauxParsed()

	vintage := 2019
	exact := &store.CollectionWine{Producer: "Château Margaux", Vintage: &vintage, Region: "Bordeaux", Country: "France", WineType: model.WineTypeRed}
	partial := &store.CollectionWine{Producer: "Château Margaux"}
	unrelated := &store.CollectionWine{Producer: "Penfolds", Region: "Barossa", Country: "Australia"}

	assert.Greater(t, s.scoreWine(exact, parsed), s.scoreWine(partial, parsed))
	assert.Greater(t, s.scoreWine(partial, parsed), s.scoreWine(unrelated, parsed))
	assert.GreaterOrEqual(t, s.scoreWine(unrelated, parsed), 50.0)
}

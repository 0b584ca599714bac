package infer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

func TestComplete_RegionRollUp(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{Producer: "Château Margaux", Region: "Margaux"}
	out, applied := Complete(context.Background(), lexicon.Default(), rec)

	assert.Equal(t, "Bordeaux", out.Region)
	assert.Equal(t, "Margaux", out.Appellation)
	assert.Equal(t, "France", out.Country)
	// Input record untouched.
	assert.Equal(t, "Margaux", rec.Region)

	rules := make(map[string]bool)
	for _, inf := range applied {
		rules[inf.Rule] = true
	}
	assert.True(t, rules[model.InferenceRegionRollUp])
}

func TestComplete_AppellationDerivesRegionAndCountry(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{Appellation: "Pauillac"}
	out, applied := Complete(context.Background(), lexicon.Default(), rec)

	assert.Equal(t, "Bordeaux", out.Region)
	assert.Equal(t, "France", out.Country)
	require.Len(t, applied, 2)
	assert.Equal(t, model.InferenceAppellationRegion, applied[0].Rule)
	assert.Equal(t, model.InferenceAppellationCountry, applied[1].Rule)
}

func TestComplete_RegionDerivesCountry(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{Region: "Rioja"}
	out, applied := Complete(context.Background(), lexicon.Default(), rec)

	assert.Equal(t, "Spain", out.Country)
	require.Len(t, applied, 1)
	assert.Equal(t, model.InferenceRegionCountry, applied[0].Rule)
	assert.Equal(t, "country", applied[0].Field)
}

func TestComplete_GrapeColorDerivesWineType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		grapes []string
		want   model.WineType
	}{
		{"red grape first", []string{"Cabernet Sauvignon", "Merlot"}, model.WineTypeRed},
		{"white grape first", []string{"Chardonnay"}, model.WineTypeWhite},
		{"unknown then known", []string{"Mystery", "Pinot Noir"}, model.WineTypeRed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &model.ParsedWineRecord{Grapes: tt.grapes}
			out, applied := Complete(context.Background(), lexicon.Default(), rec)
			assert.Equal(t, tt.want, out.WineType)
			require.NotEmpty(t, applied)
			assert.Equal(t, model.InferenceGrapeWineType, applied[len(applied)-1].Rule)
		})
	}
}

func TestComplete_DoesNotOverwrite(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{
		Region:   "Bordeaux",
		Country:  "Italy", // wrong, but the model said it
		WineType: model.WineTypeRose,
		Grapes:   []string{"Cabernet Sauvignon"},
	}
	out, applied := Complete(context.Background(), lexicon.Default(), rec)

	assert.Equal(t, "Italy", out.Country)
	assert.Equal(t, model.WineTypeRose, out.WineType)
	assert.Empty(t, applied)
}

func TestComplete_NoRules(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{Producer: "Ridge"}
	out, applied := Complete(context.Background(), lexicon.Default(), rec)

	assert.Equal(t, rec.Producer, out.Producer)
	assert.Empty(t, applied)
}

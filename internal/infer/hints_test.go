package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

func TestParseHints(t *testing.T) {
	t.Parallel()
	lex := lexicon.Default()

	t.Run("region asserts country too", func(t *testing.T) {
		t.Parallel()
		cons := ParseHints(lex, "Bordeaux")
		require.Len(t, cons, 2)
		assert.Equal(t, ConstraintRegion, cons[0].Type)
		assert.Equal(t, "Bordeaux", cons[0].Value)
		assert.InDelta(t, 0.9, cons[0].Confidence, 1e-9)
		assert.Equal(t, ConstraintCountry, cons[1].Type)
		assert.Equal(t, "France", cons[1].Value)
		assert.InDelta(t, 0.72, cons[1].Confidence, 1e-9)
	})

	t.Run("hedging discounts confidence", func(t *testing.T) {
		t.Parallel()
		cons := ParseHints(lex, "maybe Burgundy")
		require.NotEmpty(t, cons)
		assert.Equal(t, ConstraintRegion, cons[0].Type)
		assert.InDelta(t, 0.9*0.7, cons[0].Confidence, 1e-9)
	})

	t.Run("full string before split parts", func(t *testing.T) {
		t.Parallel()
		// "Loire Valley" must match as a whole, not fragment into tokens.
		cons := ParseHints(lex, "Loire Valley")
		require.NotEmpty(t, cons)
		assert.Equal(t, "Loire Valley", cons[0].Value)
	})

	t.Run("semicolon list fills multiple categories", func(t *testing.T) {
		t.Parallel()
		cons := ParseHints(lex, "Rioja; Tempranillo")
		types := make(map[ConstraintType]string)
		for _, c := range cons {
			types[c.Type] = c.Value
		}
		assert.Equal(t, "Rioja", types[ConstraintRegion])
		assert.Equal(t, "Spain", types[ConstraintCountry])
		assert.Equal(t, "Tempranillo", types[ConstraintGrape])
	})

	t.Run("first match per category wins", func(t *testing.T) {
		t.Parallel()
		cons := ParseHints(lex, "Rioja, Bordeaux")
		var regions []string
		for _, c := range cons {
			if c.Type == ConstraintRegion {
				regions = append(regions, c.Value)
			}
		}
		require.Len(t, regions, 1)
		// Neither sub-phrase matches as the full string, so the comma split
		// runs in order.
		assert.Equal(t, "Rioja", regions[0])
	})

	t.Run("wine type alias", func(t *testing.T) {
		t.Parallel()
		cons := ParseHints(lex, "rosso")
		require.Len(t, cons, 1)
		assert.Equal(t, ConstraintWineType, cons[0].Type)
		assert.Equal(t, "Red", cons[0].Value)
	})

	t.Run("empty and unmatched", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ParseHints(lex, ""))
		assert.Empty(t, ParseHints(lex, "tastes great with cheese"))
	})
}

func TestAdjustScore(t *testing.T) {
	t.Parallel()

	rec := &model.ParsedWineRecord{
		Region:  "Bordeaux",
		Country: "France",
		Grapes:  []string{"Merlot"},
	}

	tests := []struct {
		name string
		cons []Constraint
		base int
		want int
	}{
		{
			name: "agreement rewards",
			cons: []Constraint{{Type: ConstraintRegion, Value: "Bordeaux", Confidence: 1.0}},
			base: 60,
			want: 65,
		},
		{
			name: "conflict penalises harder",
			cons: []Constraint{{Type: ConstraintRegion, Value: "Burgundy", Confidence: 1.0}},
			base: 60,
			want: 50,
		},
		{
			name: "missing field is neutral",
			cons: []Constraint{{Type: ConstraintWineType, Value: "Red", Confidence: 1.0}},
			base: 60,
			want: 60,
		},
		{
			name: "hedged conflict scaled",
			cons: []Constraint{{Type: ConstraintCountry, Value: "Italy", Confidence: 0.63}},
			base: 60,
			want: 54, // 60 - 10*0.63 = 53.7, rounds to 54
		},
		{
			name: "clamped at 100",
			cons: []Constraint{
				{Type: ConstraintRegion, Value: "Bordeaux", Confidence: 1.0},
				{Type: ConstraintGrape, Value: "Merlot", Confidence: 1.0},
			},
			base: 99,
			want: 100,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AdjustScore(tt.base, rec, tt.cons))
		})
	}
}

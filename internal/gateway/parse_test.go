package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "direct object",
			content: `{"producer": "Ridge"}`,
			want:    `{"producer": "Ridge"}`,
		},
		{
			name:    "fenced block",
			content: "Here you go:\n```json\n{\"producer\": \"Ridge\"}\n```\nHope that helps.",
			want:    `{"producer": "Ridge"}`,
		},
		{
			name:    "fenced block no language tag",
			content: "```\n{\"region\": \"Rioja\"}\n```",
			want:    `{"region": "Rioja"}`,
		},
		{
			name:    "embedded span",
			content: `The wine is {"producer": "Ridge", "wine_name": "Monte Bello"} as requested.`,
			want:    `{"producer": "Ridge", "wine_name": "Monte Bello"}`,
		},
		{
			name:    "braces inside string values",
			content: `answer: {"wine_name": "Cuvée {Special}", "region": "Rhône Valley"} done`,
			want:    `{"wine_name": "Cuvée {Special}", "region": "Rhône Valley"}`,
		},
		{
			name:    "no json at all",
			content: "I could not identify this wine.",
			wantErr: true,
		},
		{
			name:    "truncated object",
			content: `{"producer": "Ridge", "wine_name": "Monte`,
			wantErr: true,
		},
		{
			name:    "empty",
			content: "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := extractJSON(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, model.ErrJSONParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestParseRecord(t *testing.T) {
	t.Parallel()
	lex := lexicon.Default()

	t.Run("full record", func(t *testing.T) {
		t.Parallel()
		rec, err := ParseRecord(`{
			"producer": " Château Margaux ",
			"wine_name": "Grand Vin",
			"vintage": 2019,
			"region": "Bordeaux",
			"country": "france",
			"wine_type": "red",
			"grapes": ["Cabernet Sauvignon", "Merlot", "cabernet sauvignon"],
			"appellation": "Margaux",
			"confidence": 88
		}`, lex)
		require.NoError(t, err)

		assert.Equal(t, "Château Margaux", rec.Producer)
		assert.Equal(t, "Grand Vin", rec.WineName)
		require.NotNil(t, rec.Vintage)
		assert.Equal(t, 2019, *rec.Vintage)
		assert.Equal(t, "France", rec.Country)
		assert.Equal(t, model.WineTypeRed, rec.WineType)
		assert.Equal(t, []string{"Cabernet Sauvignon", "Merlot"}, rec.Grapes)
		assert.Equal(t, 88, rec.ModelConfidence)
	})

	t.Run("alternate key spellings", func(t *testing.T) {
		t.Parallel()
		rec, err := ParseRecord(`{"name": "Monte Bello", "type": "rosso", "vintage": "the 2015 vintage", "grapes": "Zinfandel, Petite Sirah"}`, lex)
		require.NoError(t, err)

		assert.Equal(t, "Monte Bello", rec.WineName)
		assert.Equal(t, model.WineTypeRed, rec.WineType)
		require.NotNil(t, rec.Vintage)
		assert.Equal(t, 2015, *rec.Vintage)
		assert.Equal(t, []string{"Zinfandel", "Petite Sirah"}, rec.Grapes)
	})

	t.Run("parse failure wraps error kind", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRecord("no json here", lex)
		require.Error(t, err)
		assert.Equal(t, model.ErrKindJSONParse, model.KindOf(err))
	})
}

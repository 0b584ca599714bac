package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "appellations",
		Columns:      []string{"key", "name"},
		ConflictKeys: []string{"key"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "appellations",
		ConflictKeys: []string{"key"},
	}, [][]any{{"margaux", "Margaux"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:   "appellations",
		Columns: []string{"key", "name"},
	}, [][]any{{"margaux", "Margaux"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"appellations", `"appellations"`},
		{"reference.appellations", `"reference"."appellations"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeTable(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUpsertSQL(t *testing.T) {
	cfg := UpsertConfig{
		Table:        "appellations",
		Columns:      []string{"key", "name", "region"},
		ConflictKeys: []string{"key"},
	}
	got := upsertSQL(cfg, "_tmp_upsert_appellations")
	want := `INSERT INTO "appellations" ("key", "name", "region") ` +
		`SELECT "key", "name", "region" FROM "_tmp_upsert_appellations" ` +
		`ON CONFLICT ("key") DO UPDATE SET "name" = EXCLUDED."name", "region" = EXCLUDED."region"`
	assert.Equal(t, want, got)
}

func TestUpdateColumns_ExplicitList(t *testing.T) {
	cfg := UpsertConfig{
		Columns:      []string{"key", "name", "region"},
		ConflictKeys: []string{"key"},
		UpdateCols:   []string{"name"},
	}
	assert.Equal(t, []string{"name"}, updateColumns(cfg))
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"key", "name", "region"})
	assert.Equal(t, `"key", "name", "region"`, result)
}

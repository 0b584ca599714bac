package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// newMockReference creates a PostgresReference backed by pgxmock for unit testing.
func newMockReference(t *testing.T) (*PostgresReference, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresReference{pool: mock}
	return s, mock
}

func appellationColumns() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"name", "region", "subregion", "country", "grapes", "wine_types"})
}

func TestPostgresReference_ResolveAppellation(t *testing.T) {
	s, mock := newMockReference(t)

	mock.ExpectQuery(`SELECT name, region, subregion, country, grapes, wine_types FROM appellations WHERE key = \$1`).
		WithArgs("margaux").
		WillReturnRows(appellationColumns().
			AddRow("Margaux", "Bordeaux", "Médoc", "France", "Cabernet Sauvignon,Merlot", "Red"))

	a, err := s.ResolveAppellation(context.Background(), "margaux")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Margaux", a.Name)
	assert.Equal(t, "Bordeaux", a.Region)
	assert.Equal(t, []string{"Cabernet Sauvignon", "Merlot"}, a.Grapes)
	assert.Equal(t, []model.WineType{model.WineTypeRed}, a.WineTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_ResolveAppellation_Miss(t *testing.T) {
	s, mock := newMockReference(t)

	mock.ExpectQuery(`SELECT name, region, subregion, country, grapes, wine_types FROM appellations WHERE key = \$1`).
		WithArgs("nowhere").
		WillReturnError(pgx.ErrNoRows)

	a, err := s.ResolveAppellation(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_SearchAppellations(t *testing.T) {
	s, mock := newMockReference(t)

	mock.ExpectQuery(`SELECT name, region, subregion, country, grapes, wine_types FROM appellations`).
		WithArgs("pauillac", 5).
		WillReturnRows(appellationColumns().
			AddRow("Pauillac", "Bordeaux", "Médoc", "France", "Cabernet Sauvignon", "Red"))

	apps, err := s.SearchAppellations(context.Background(), "Pauillac", 5)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Pauillac", apps[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_SearchAppellations_EmptyQuery(t *testing.T) {
	s, mock := newMockReference(t)

	apps, err := s.SearchAppellations(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Nil(t, apps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_UpsertAppellations(t *testing.T) {
	s, mock := newMockReference(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_appellations"},
		[]string{"key", "name", "region", "subregion", "country", "grapes", "wine_types", "updated_at"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "appellations"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := s.UpsertAppellations(context.Background(), []lexicon.Appellation{
		{Name: "Margaux", Region: "Bordeaux", Country: "France", Grapes: []string{"Merlot"}},
		{Name: "Chablis", Region: "Burgundy", Country: "France", WineTypes: []model.WineType{model.WineTypeWhite}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_UpsertAppellations_Empty(t *testing.T) {
	s, mock := newMockReference(t)

	n, err := s.UpsertAppellations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReference_Migrate(t *testing.T) {
	s, mock := newMockReference(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS appellations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

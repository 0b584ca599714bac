package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// SQLiteCollection implements CollectionStore using modernc.org/sqlite.
type SQLiteCollection struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteCollection, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteCollection{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS wines (
	id          TEXT PRIMARY KEY,
	producer    TEXT NOT NULL,
	wine_name   TEXT NOT NULL DEFAULT '',
	vintage     INTEGER,
	region      TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	wine_type   TEXT NOT NULL DEFAULT '',
	grapes      TEXT NOT NULL DEFAULT '',
	appellation TEXT NOT NULL DEFAULT '',
	search_text TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_wines_producer ON wines(producer);
CREATE INDEX IF NOT EXISTS idx_wines_vintage ON wines(vintage);
CREATE INDEX IF NOT EXISTS idx_wines_search_text ON wines(search_text);
`

func (s *SQLiteCollection) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteCollection) Close() error {
	return s.db.Close()
}

func (s *SQLiteCollection) AddWine(ctx context.Context, rec *model.ParsedWineRecord) (*CollectionWine, error) {
	if rec == nil || strings.TrimSpace(rec.Producer) == "" {
		return nil, eris.Wrap(model.ErrValidation, "sqlite: add wine: producer is required")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	w := &CollectionWine{
		ID:          id,
		Producer:    rec.Producer,
		WineName:    rec.WineName,
		Region:      rec.Region,
		Country:     rec.Country,
		WineType:    rec.WineType,
		Grapes:      append([]string(nil), rec.Grapes...),
		Appellation: rec.Appellation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rec.Vintage != nil {
		v := *rec.Vintage
		w.Vintage = &v
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wines (id, producer, wine_name, vintage, region, country, wine_type, grapes, appellation, search_text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, w.Producer, w.WineName, w.Vintage, w.Region, w.Country, string(w.WineType),
		joinCSV(w.Grapes), w.Appellation, searchText(w), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert wine")
	}
	return w, nil
}

func (s *SQLiteCollection) GetWine(ctx context.Context, id string) (*CollectionWine, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, producer, wine_name, vintage, region, country, wine_type, grapes, appellation, created_at, updated_at
		 FROM wines WHERE id = ?`,
		id,
	)
	w, err := scanWine(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("wine not found: %s", id)
	}
	return w, err
}

// SearchWines returns wines whose folded producer, name, region or
// appellation contains the folded query, newest first.
func (s *SQLiteCollection) SearchWines(ctx context.Context, query string, limit int) ([]CollectionWine, error) {
	folded := lexicon.Fold(query)
	if folded == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, producer, wine_name, vintage, region, country, wine_type, grapes, appellation, created_at, updated_at
		 FROM wines WHERE search_text LIKE '%' || ? || '%'
		 ORDER BY created_at DESC LIMIT ?`,
		folded, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search wines")
	}
	defer rows.Close()

	var wines []CollectionWine
	for rows.Next() {
		w, err := scanWine(rows)
		if err != nil {
			return nil, err
		}
		wines = append(wines, *w)
	}
	return wines, eris.Wrap(rows.Err(), "sqlite: search wines iterate")
}

func (s *SQLiteCollection) DeleteWine(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wines WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete wine %s", id)
	}
	return checkRowsAffected(res, "wine", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanWine(row scannable) (*CollectionWine, error) {
	var w CollectionWine
	var vintage sql.NullInt64
	var wineType, grapes string

	err := row.Scan(&w.ID, &w.Producer, &w.WineName, &vintage, &w.Region, &w.Country,
		&wineType, &grapes, &w.Appellation, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan wine")
	}

	if vintage.Valid {
		v := int(vintage.Int64)
		w.Vintage = &v
	}
	w.WineType = model.WineType(wineType)
	w.Grapes = splitCSV(grapes)
	return &w, nil
}

// searchText is the folded haystack the substring search runs over.
func searchText(w *CollectionWine) string {
	parts := []string{w.Producer, w.WineName, w.Region, w.Appellation}
	return lexicon.Fold(strings.Join(parts, " "))
}

func joinCSV(items []string) string {
	return strings.Join(items, ",")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

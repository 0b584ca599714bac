package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cellarbook/vinident/internal/db"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// PostgresReference implements ReferenceStore using pgxpool.
type PostgresReference struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot lookup paths.
var preparedStatements = map[string]string{
	"resolve_appellation": `SELECT name, region, subregion, country, grapes, wine_types FROM appellations WHERE key = $1`,
	"search_appellations": `SELECT name, region, subregion, country, grapes, wine_types FROM appellations WHERE key LIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
}

// NewPostgresReference creates a PostgresReference with a connection pool.
func NewPostgresReference(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresReference, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresReference{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for use by subsystems that need
// direct query access (e.g., bulk reference loads).
func (s *PostgresReference) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS appellations (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	region     TEXT NOT NULL,
	subregion  TEXT NOT NULL DEFAULT '',
	country    TEXT NOT NULL,
	grapes     TEXT NOT NULL DEFAULT '',
	wine_types TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_appellations_name ON appellations(name);
CREATE INDEX IF NOT EXISTS idx_appellations_region ON appellations(region);
`

func (s *PostgresReference) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresReference) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresReference) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// ResolveAppellation looks up one appellation by its normalised key. A miss
// is (nil, nil) so the lexicon can fall back to its built-in table.
func (s *PostgresReference) ResolveAppellation(ctx context.Context, key string) (*lexicon.Appellation, error) {
	var a lexicon.Appellation
	var grapes, wineTypes string

	err := s.pool.QueryRow(ctx,
		`SELECT name, region, subregion, country, grapes, wine_types FROM appellations WHERE key = $1`,
		key,
	).Scan(&a.Name, &a.Region, &a.Subregion, &a.Country, &grapes, &wineTypes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: resolve appellation %s", key)
	}

	a.Grapes = splitCSV(grapes)
	a.WineTypes = wineTypesFromCSV(wineTypes)
	return &a, nil
}

// SearchAppellations returns appellations whose key contains the folded
// query, alphabetically, capped at limit.
func (s *PostgresReference) SearchAppellations(ctx context.Context, query string, limit int) ([]lexicon.Appellation, error) {
	key := lexicon.Key(query)
	if key == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	rows, err := s.pool.Query(ctx,
		`SELECT name, region, subregion, country, grapes, wine_types FROM appellations
		 WHERE key LIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
		key, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search appellations")
	}
	defer rows.Close()

	var apps []lexicon.Appellation
	for rows.Next() {
		var a lexicon.Appellation
		var grapes, wineTypes string
		if err := rows.Scan(&a.Name, &a.Region, &a.Subregion, &a.Country, &grapes, &wineTypes); err != nil {
			return nil, eris.Wrap(err, "postgres: scan appellation")
		}
		a.Grapes = splitCSV(grapes)
		a.WineTypes = wineTypesFromCSV(wineTypes)
		apps = append(apps, a)
	}
	return apps, eris.Wrap(rows.Err(), "postgres: search appellations iterate")
}

// UpsertAppellations bulk-loads appellation rows, replacing existing entries
// with the same key.
func (s *PostgresReference) UpsertAppellations(ctx context.Context, apps []lexicon.Appellation) (int64, error) {
	if len(apps) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(apps))
	for _, a := range apps {
		key := lexicon.Key(a.Name)
		if key == "" {
			continue
		}
		rows = append(rows, []any{
			key, a.Name, a.Region, a.Subregion, a.Country,
			joinCSV(a.Grapes), wineTypesToCSV(a.WineTypes), now,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "appellations",
		Columns:      []string{"key", "name", "region", "subregion", "country", "grapes", "wine_types", "updated_at"},
		ConflictKeys: []string{"key"},
	}, rows)
}

func wineTypesToCSV(types []model.WineType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func wineTypesFromCSV(s string) []model.WineType {
	var out []model.WineType
	for _, part := range splitCSV(s) {
		out = append(out, model.WineType(part))
	}
	return out
}

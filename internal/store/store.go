// Package store persists the user's wine collection and the shared
// appellation reference data used for disambiguation candidates.
package store

import (
	"context"
	"time"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
)

// CollectionWine is one wine in the user's collection.
type CollectionWine struct {
	ID          string         `json:"id"`
	Producer    string         `json:"producer"`
	WineName    string         `json:"wine_name,omitempty"`
	Vintage     *int           `json:"vintage,omitempty"`
	Region      string         `json:"region,omitempty"`
	Country     string         `json:"country,omitempty"`
	WineType    model.WineType `json:"wine_type,omitempty"`
	Grapes      []string       `json:"grapes,omitempty"`
	Appellation string         `json:"appellation,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Record converts the stored row back to the parsed-record shape used by
// scoring and candidate ranking.
func (w *CollectionWine) Record() *model.ParsedWineRecord {
	rec := &model.ParsedWineRecord{
		Producer:    w.Producer,
		WineName:    w.WineName,
		Region:      w.Region,
		Country:     w.Country,
		WineType:    w.WineType,
		Appellation: w.Appellation,
	}
	if w.Vintage != nil {
		v := *w.Vintage
		rec.Vintage = &v
	}
	rec.Grapes = append(rec.Grapes, w.Grapes...)
	return rec
}

// CollectionStore defines persistence for the user's own wines.
type CollectionStore interface {
	AddWine(ctx context.Context, rec *model.ParsedWineRecord) (*CollectionWine, error)
	GetWine(ctx context.Context, id string) (*CollectionWine, error)
	SearchWines(ctx context.Context, query string, limit int) ([]CollectionWine, error)
	DeleteWine(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

// ReferenceStore defines persistence for the shared appellation reference
// table. It also satisfies lexicon.Resolver so the lexicon can consult the
// database before falling back to its built-in tables.
type ReferenceStore interface {
	lexicon.Resolver

	SearchAppellations(ctx context.Context, query string, limit int) ([]lexicon.Appellation, error)
	UpsertAppellations(ctx context.Context, apps []lexicon.Appellation) (int64, error)

	Migrate(ctx context.Context) error
	Close() error
}

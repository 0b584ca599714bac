package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database schemas",
	Long:  "Applies the collection schema to the local SQLite database and, when a reference database is configured, the appellation schema to Postgres.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		col, err := store.NewSQLite(cfg.Collection.Path)
		if err != nil {
			return eris.Wrap(err, "open collection store")
		}
		defer col.Close()

		if err := col.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate collection store")
		}
		zap.L().Info("collection schema up to date", zap.String("path", cfg.Collection.Path))

		if cfg.Reference.DatabaseURL == "" {
			zap.L().Info("no reference database configured, skipping")
			return nil
		}

		ref, err := store.NewPostgresReference(ctx, cfg.Reference.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Reference.MaxConns,
			MinConns: cfg.Reference.MinConns,
		})
		if err != nil {
			return eris.Wrap(err, "connect reference database")
		}
		defer ref.Close()

		if err := ref.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate reference database")
		}
		zap.L().Info("reference schema up to date")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

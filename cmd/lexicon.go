package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/store"
)

var lexiconFile string

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage and inspect the appellation reference data",
}

var lexiconLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolve an appellation name the way the scorer would",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var ref *store.PostgresReference
		if cfg.Reference.DatabaseURL != "" {
			var err error
			ref, err = store.NewPostgresReference(ctx, cfg.Reference.DatabaseURL, &store.PoolConfig{
				MaxConns: cfg.Reference.MaxConns,
				MinConns: cfg.Reference.MinConns,
			})
			if err != nil {
				zap.L().Warn("reference database unavailable, using built-in vocabulary only", zap.Error(err))
			} else {
				defer ref.Close()
			}
		}

		lex, err := buildLexicon(ref)
		if err != nil {
			return err
		}

		name := args[0]
		app, ok := lex.Appellation(ctx, name)
		if !ok {
			zap.L().Info("no appellation match",
				zap.String("query", name),
				zap.String("key", lexicon.Key(name)))
			return nil
		}

		roll := lex.RollUpRegion(name)
		return printJSON(map[string]any{
			"query":       name,
			"key":         lexicon.Key(name),
			"appellation": app,
			"roll_up":     roll,
		})
	},
}

var lexiconLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load appellations from a YAML file into the reference database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("lexicon"); err != nil {
			return err
		}

		apps, err := lexicon.LoadAppellations(lexiconFile)
		if err != nil {
			return eris.Wrap(err, "load appellations file")
		}
		if len(apps) == 0 {
			zap.L().Warn("appellations file is empty, nothing to load", zap.String("file", lexiconFile))
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

		n, err := ref.UpsertAppellations(ctx, apps)
		if err != nil {
			return eris.Wrap(err, "upsert appellations")
		}

		zap.L().Info("appellations loaded",
			zap.String("file", lexiconFile),
			zap.Int("parsed", len(apps)),
			zap.Int64("upserted", n),
		)

		return nil
	},
}

func init() {
	lexiconLoadCmd.Flags().StringVar(&lexiconFile, "file", "", "YAML appellations file (required)")
	_ = lexiconLoadCmd.MarkFlagRequired("file")
	lexiconCmd.AddCommand(lexiconLoadCmd)
	lexiconCmd.AddCommand(lexiconLookupCmd)
	rootCmd.AddCommand(lexiconCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vinident",
	Short: "Wine identification confidence engine",
	Long:  "Identifies wines from free text or label photos via tiered model escalation, scores confidence against the user's own words, and suggests candidates when the result is uncertain.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

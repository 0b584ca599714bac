package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/escalate"
	"github.com/cellarbook/vinident/internal/model"
)

var (
	premiumImage      string
	premiumHint       string
	premiumRequestID  string
	premiumPriorFile  string
	premiumConfidence int
	premiumLocked     []string
)

var premiumCmd = &cobra.Command{
	Use:   "premium [text]",
	Short: "Re-run an identification on the premium model",
	Long:  "Resubmits the original input to the premium model, optionally with the prior result and user-confirmed fields the model must keep verbatim. The outcome is never auto-populated.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, "identify")
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := buildInput(args, premiumImage, premiumHint, premiumRequestID)
		if err != nil {
			return err
		}

		req := escalate.PremiumRequest{
			Input:           in,
			PriorConfidence: premiumConfidence,
			LockedFields:    premiumLocked,
		}
		if premiumPriorFile != "" {
			prior, err := loadPrior(premiumPriorFile)
			if err != nil {
				return err
			}
			req.Prior = prior
		}

		result, err := env.Engine.RunPremium(ctx, req)
		if err != nil {
			return eris.Wrap(err, "premium")
		}

		zap.L().Info("premium identification complete",
			zap.Int("confidence", result.Confidence),
			zap.String("action", string(result.Action)),
			zap.Float64("cost_usd", result.Escalation.TotalCostUSD),
		)

		return printJSON(result)
	},
}

func loadPrior(path string) (*model.ParsedWineRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read prior result file")
	}
	var prior model.ParsedWineRecord
	if err := json.Unmarshal(raw, &prior); err != nil {
		return nil, eris.Wrap(err, "parse prior result file")
	}
	return &prior, nil
}

func init() {
	premiumCmd.Flags().StringVar(&premiumImage, "image", "", "path to a label photo")
	premiumCmd.Flags().StringVar(&premiumHint, "hint", "", "supplementary text")
	premiumCmd.Flags().StringVar(&premiumRequestID, "request-id", "", "request id for cooperative cancellation")
	premiumCmd.Flags().StringVar(&premiumPriorFile, "prior", "", "path to the prior parsed record JSON")
	premiumCmd.Flags().IntVar(&premiumConfidence, "prior-confidence", 0, "confidence of the prior result")
	premiumCmd.Flags().StringSliceVar(&premiumLocked, "lock", nil, "fields the user has confirmed (repeatable)")
	rootCmd.AddCommand(premiumCmd)
}

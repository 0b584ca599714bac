package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/escalate"
	"github.com/cellarbook/vinident/internal/model"
)

var (
	identifyImage     string
	identifyHint      string
	identifyStream    bool
	identifyRequestID string
)

var identifyCmd = &cobra.Command{
	Use:   "identify [text]",
	Short: "Identify a wine from free text or a label photo",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx, "identify")
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := buildInput(args, identifyImage, identifyHint, identifyRequestID)
		if err != nil {
			return err
		}

		var result *model.IdentifyResult
		if identifyStream {
			result, err = env.Engine.IdentifyStream(ctx, in, func(field, value string) {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, value)
			})
		} else {
			result, err = env.Engine.Identify(ctx, in)
		}
		if err != nil {
			return eris.Wrap(err, "identify")
		}

		zap.L().Info("identification complete",
			zap.Int("confidence", result.Confidence),
			zap.String("action", string(result.Action)),
			zap.String("final_tier", string(result.Escalation.FinalTier)),
			zap.Float64("cost_usd", result.Escalation.TotalCostUSD),
		)

		return printJSON(result)
	},
}

// buildInput assembles the engine input from CLI flags: either a label photo
// with an optional hint, or free text.
func buildInput(args []string, imagePath, hint, requestID string) (escalate.Input, error) {
	in := escalate.Input{Supplementary: hint, RequestID: requestID}

	if imagePath != "" {
		raw, err := os.ReadFile(imagePath)
		if err != nil {
			return in, eris.Wrap(err, "read image file")
		}
		mime := http.DetectContentType(raw)
		if strings.HasSuffix(strings.ToLower(imagePath), ".heic") {
			mime = "image/heic"
		}
		img, err := classify.Image(base64.StdEncoding.EncodeToString(raw), mime, hint)
		if err != nil {
			return in, err
		}
		in.Image = img
		return in, nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return in, eris.New("identify: text argument or --image is required")
	}
	in.Text = args[0]
	return in, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	identifyCmd.Flags().StringVar(&identifyImage, "image", "", "path to a label photo")
	identifyCmd.Flags().StringVar(&identifyHint, "hint", "", "supplementary text (\"the Rioja from the left shelf\")")
	identifyCmd.Flags().BoolVar(&identifyStream, "stream", false, "stream fields as the model emits them")
	identifyCmd.Flags().StringVar(&identifyRequestID, "request-id", "", "request id for cooperative cancellation")
	rootCmd.AddCommand(identifyCmd)
}

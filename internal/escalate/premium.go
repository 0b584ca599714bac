package escalate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/model"
)

// PremiumRequest is the explicitly user-triggered Tier 3 retry. The original
// input is resubmitted alongside the prior result; LockedFields names fields
// the user has confirmed and the model must keep verbatim.
type PremiumRequest struct {
	Input

	Prior           *model.ParsedWineRecord
	PriorConfidence int
	LockedFields    []string
}

// RunPremium runs the premium model once, with the prior result as context
// and no further escalation. The outcome is capped at suggest; anything
// below the suggest threshold becomes disambiguate with candidates.
func (e *Engine) RunPremium(ctx context.Context, req PremiumRequest) (*model.IdentifyResult, error) {
	st, err := e.prepare(ctx, req.Input)
	if err != nil {
		return failure(nil, err), err
	}
	defer e.cancels.Clear(req.RequestID)

	if req.Prior != nil {
		st.best = &attempt{tier: model.Tier3, rec: req.Prior, score: req.PriorConfidence}
	}
	st.locked = req.LockedFields

	err = e.runTier(ctx, st, model.Tier3)
	if err != nil && st.best == nil {
		return failure(st, err), err
	}
	if err != nil {
		zap.L().Warn("premium tier failed, keeping prior result", zap.Error(err))
	}

	res := e.finalize(ctx, st)
	res.Escalation.FinalTier = model.Tier3

	if res.Confidence >= e.scorer.Thresholds().Suggest {
		res.Action = model.ActionSuggest
		return res, nil
	}

	res.Action = model.ActionDisambiguate
	if res.Candidates == nil && e.finder != nil {
		candidates, ferr := e.finder.FindCandidates(ctx, res.Parsed)
		if ferr != nil {
			zap.L().Warn("candidate search failed", zap.Error(ferr))
		} else {
			res.Candidates = candidates
		}
	}
	return res, nil
}

// Cancel flags a request ID for cooperative cancellation and reports whether
// the registry accepted it.
func (e *Engine) Cancel(requestID string) error {
	if requestID == "" {
		return eris.Wrap(model.ErrValidation, "escalate: cancel requires a request id")
	}
	e.cancels.Cancel(requestID)
	return nil
}

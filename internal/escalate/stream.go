package escalate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/gateway"
	"github.com/cellarbook/vinident/internal/model"
)

// IdentifyStream runs Tier 1 only, invoking onField as the model emits each
// field. There is no escalation past Tier 1 on the streaming path; callers
// wanting the full ladder rerun through Identify. When the stream fails and
// fallback is configured, the same tier is rerun through the blocking path.
func (e *Engine) IdentifyStream(ctx context.Context, in Input, onField gateway.FieldFunc) (*model.IdentifyResult, error) {
	if in.Image != nil {
		err := eris.Wrap(model.ErrValidation, "escalate: streaming identification is text-only")
		return failure(nil, err), err
	}

	st, err := e.prepare(ctx, in)
	if err != nil {
		return failure(nil, err), err
	}
	defer e.cancels.Clear(in.RequestID)

	spec, ok := e.cfg.Tiers[model.Tier1]
	if !ok {
		err := eris.Wrapf(model.ErrProviderUnavailable, "escalate: no configuration for %s", model.Tier1)
		return failure(st, err), err
	}

	outcome := model.TierOutcome{Provider: spec.Provider, Model: spec.Model}
	res, err := e.gw.ProcessStream(ctx, st.request(spec), onField)
	if err != nil && model.KindOf(err) == model.ErrKindStreaming && e.cfg.StreamFallback {
		zap.L().Warn("stream failed, falling back to blocking call", zap.Error(err))
		res, err = e.gw.Process(ctx, st.request(spec))
	}
	if err != nil {
		outcome.Error = err.Error()
		st.record(model.Tier1, outcome)
		return failure(st, err), err
	}

	e.adopt(ctx, st, model.Tier1, res, &outcome)
	st.record(model.Tier1, outcome)
	return e.finalize(ctx, st), nil
}

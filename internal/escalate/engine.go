// Package escalate drives the tiered identification ladder: a fast first
// call, a more deliberate rerun, a provider switch, and an explicitly
// user-triggered premium tier. Each tier's result informs whether the next
// is attempted; a tier is only adopted when it does not regress confidence.
package escalate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/gateway"
	"github.com/cellarbook/vinident/internal/infer"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
	"github.com/cellarbook/vinident/internal/scoring"
)

// CandidateFinder supplies disambiguation candidates when confidence is low.
type CandidateFinder interface {
	FindCandidates(ctx context.Context, parsed *model.ParsedWineRecord) ([]model.Candidate, error)
}

// Engine runs identification requests through the escalation ladder.
type Engine struct {
	gw      *gateway.Gateway
	scorer  *scoring.Scorer
	lex     *lexicon.Lexicon
	finder  CandidateFinder
	cancels *CancelRegistry
	cfg     Config
}

// New creates an Engine. finder may be nil, in which case no candidates are
// ever attached; cancels may be nil for callers that never cancel.
func New(gw *gateway.Gateway, scorer *scoring.Scorer, lex *lexicon.Lexicon, finder CandidateFinder, cancels *CancelRegistry, cfg Config) *Engine {
	if cancels == nil {
		cancels = NewCancelRegistry()
	}
	return &Engine{gw: gw, scorer: scorer, lex: lex, finder: finder, cancels: cancels, cfg: cfg}
}

// Cancels exposes the registry so transport layers can flag request IDs.
func (e *Engine) Cancels() *CancelRegistry { return e.cancels }

// Input is one identification request. Exactly one of Text or Image is set.
type Input struct {
	Text          string
	Image         *classify.ImageInput
	Supplementary string

	// RequestID keys cooperative cancellation; empty disables it.
	RequestID string
}

// attempt is one tier's scored outcome.
type attempt struct {
	tier       model.Tier
	rec        *model.ParsedWineRecord
	inferences []model.Inference
	score      int
}

// session carries the per-request state across tiers.
type session struct {
	in          Input
	anchors     []scoring.Anchor
	constraints []infer.Constraint
	imageInput  bool
	degradation float64
	locked      []string
	summary     model.EscalationSummary
	best        *attempt
}

func (st *session) record(tier model.Tier, outcome model.TierOutcome) {
	st.summary.Tiers[tier] = outcome
	st.summary.TotalCostUSD += outcome.CostUSD
}

func (st *session) request(spec TierSpec) gateway.Request {
	req := gateway.Request{
		Text:          st.in.Text,
		Image:         st.in.Image,
		Supplementary: st.supplementary(),
		LockedFields:  st.locked,
		Opts:          spec.options(),
	}
	if st.best != nil {
		req.Prior = st.best.rec
	}
	return req
}

func (st *session) supplementary() string {
	if st.in.Supplementary != "" {
		return st.in.Supplementary
	}
	if st.in.Image != nil {
		return st.in.Image.SupplementaryText
	}
	return ""
}

// Identify runs the automatic ladder: Tier 1, then Tier 1.5 on the same
// provider, then Tier 2 on the alternate provider, stopping as soon as the
// best score clears the current tier's threshold. Tier 3 is never entered
// here. Only a Tier 1 failure fails the request.
func (e *Engine) Identify(ctx context.Context, in Input) (*model.IdentifyResult, error) {
	st, err := e.prepare(ctx, in)
	if err != nil {
		return failure(nil, err), err
	}
	defer e.cancels.Clear(in.RequestID)

	if err := e.runTier(ctx, st, model.Tier1); err != nil {
		return failure(st, err), err
	}
	if st.best.score >= e.cfg.Tier1Threshold {
		return e.finalize(ctx, st), nil
	}

	if e.cancelled(ctx, st, in.RequestID) {
		return e.finalize(ctx, st), nil
	}
	e.runTier(ctx, st, model.Tier15) //nolint:errcheck // recorded in the tier outcome
	if st.best.score >= e.cfg.Tier15Threshold {
		return e.finalize(ctx, st), nil
	}

	if e.cancelled(ctx, st, in.RequestID) {
		return e.finalize(ctx, st), nil
	}
	e.runTier(ctx, st, model.Tier2) //nolint:errcheck // recorded in the tier outcome
	if st.best.score >= e.cfg.Tier2Threshold {
		return e.finalize(ctx, st), nil
	}

	// Ladder exhausted below every threshold: hand the decision to the user,
	// with the premium retry and conversational refinement as the next steps.
	res := e.finalize(ctx, st)
	res.Action = model.ActionUserChoice
	return res, nil
}

// prepare validates input and derives the per-request evidence: anchors from
// the user's own words, constraints from supplementary hints, and the image
// quality degradation factor.
func (e *Engine) prepare(ctx context.Context, in Input) (*session, error) {
	st := &session{
		in:      in,
		summary: model.EscalationSummary{Tiers: make(map[model.Tier]model.TierOutcome)},
	}

	if in.Image != nil {
		report, err := classify.AssessQuality(in.Image)
		if err != nil {
			return nil, err
		}
		if report.Degradation < 1 {
			st.degradation = report.Degradation
		}
		st.imageInput = true
		if supp := st.supplementary(); supp != "" {
			st.anchors = scoring.Extract(ctx, e.lex, supp)
			st.constraints = infer.ParseHints(e.lex, supp)
		}
		return st, nil
	}

	ti, err := classify.Text(in.Text)
	if err != nil {
		return nil, err
	}
	st.in.Text = ti.Text
	st.anchors = scoring.Extract(ctx, e.lex, ti.Text)
	st.constraints = infer.ParseHints(e.lex, in.Supplementary)
	return st, nil
}

// runTier executes one tier and records its outcome. The returned error says
// whether this tier failed; whether that fails the request is the caller's
// decision.
func (e *Engine) runTier(ctx context.Context, st *session, tier model.Tier) error {
	spec, ok := e.cfg.Tiers[tier]
	if !ok {
		err := eris.Wrapf(model.ErrProviderUnavailable, "escalate: no configuration for %s", tier)
		st.record(tier, model.TierOutcome{Error: err.Error()})
		return err
	}

	outcome := model.TierOutcome{Provider: spec.Provider, Model: spec.Model}
	if !e.gw.Available(spec.Provider) {
		err := eris.Wrapf(model.ErrProviderUnavailable, "escalate: provider %q unavailable for %s", spec.Provider, tier)
		outcome.Error = err.Error()
		st.record(tier, outcome)
		zap.L().Warn("escalation tier skipped",
			zap.String("tier", string(tier)),
			zap.String("provider", spec.Provider))
		return err
	}

	res, err := e.gw.Process(ctx, st.request(spec))
	if err != nil {
		outcome.Error = err.Error()
		st.record(tier, outcome)
		zap.L().Warn("escalation tier failed",
			zap.String("tier", string(tier)),
			zap.String("provider", spec.Provider),
			zap.Error(err))
		return err
	}

	e.adopt(ctx, st, tier, res, &outcome)
	st.record(tier, outcome)
	return nil
}

// adopt scores a tier's record and makes it the best-so-far unless it
// regresses confidence versus the prior best.
func (e *Engine) adopt(ctx context.Context, st *session, tier model.Tier, res *gateway.Result, outcome *model.TierOutcome) {
	rec, inferences := infer.Complete(ctx, e.lex, res.Parsed)
	scored := e.scorer.Score(rec, st.anchors, st.imageInput, st.degradation)
	score := infer.AdjustScore(scored.Score, rec, st.constraints)

	outcome.Confidence = score
	outcome.CostUSD = res.CostUSD
	outcome.LatencyMs = res.Latency.Milliseconds()
	if res.Model != "" {
		outcome.Model = res.Model
	}

	if st.best != nil && score < st.best.score {
		zap.L().Debug("tier result regressed, keeping prior",
			zap.String("tier", string(tier)),
			zap.Int("score", score),
			zap.Int("best", st.best.score))
		return
	}
	st.best = &attempt{tier: tier, rec: rec, inferences: inferences, score: score}
}

// cancelled polls the cooperative cancellation signals at a tier boundary.
func (e *Engine) cancelled(ctx context.Context, st *session, requestID string) bool {
	if ctx.Err() == nil && !e.cancels.Cancelled(requestID) {
		return false
	}
	zap.L().Info("identification cancelled, returning best so far",
		zap.String("request_id", requestID),
		zap.String("tier", string(st.best.tier)),
		zap.Int("confidence", st.best.score))
	return true
}

// finalize builds the caller-facing result from the best attempt, attaching
// disambiguation candidates when confidence is very low.
func (e *Engine) finalize(ctx context.Context, st *session) *model.IdentifyResult {
	b := st.best
	st.summary.FinalTier = b.tier

	res := &model.IdentifyResult{
		Success:           true,
		Parsed:            b.rec,
		Confidence:        b.score,
		Action:            e.scorer.Thresholds().ActionFor(b.score),
		Escalation:        st.summary,
		InferencesApplied: b.inferences,
	}

	if b.score < e.cfg.CandidateFloor && e.finder != nil {
		candidates, err := e.finder.FindCandidates(ctx, b.rec)
		if err != nil {
			zap.L().Warn("candidate search failed", zap.Error(err))
		} else {
			res.Candidates = candidates
		}
	}
	return res
}

// failure wraps a request-fatal error in the caller-facing shape. The error
// still propagates so transports can pick status codes off its kind.
func failure(st *session, err error) *model.IdentifyResult {
	res := &model.IdentifyResult{
		Success:   false,
		Action:    model.ActionUserChoice,
		Error:     err.Error(),
		ErrorKind: model.KindOf(err),
	}
	if st != nil {
		res.Escalation = st.summary
	}
	return res
}

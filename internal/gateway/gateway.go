// Package gateway turns classified input into canonical wine records by way
// of external model providers. It owns prompt construction, provider
// dispatch, tolerant response parsing, and post-parse normalization; the
// escalation ladder above it only sees records and costs.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cellarbook/vinident/internal/classify"
	"github.com/cellarbook/vinident/internal/cost"
	"github.com/cellarbook/vinident/internal/lexicon"
	"github.com/cellarbook/vinident/internal/model"
	"github.com/cellarbook/vinident/internal/resilience"
)

// Request is one identification call. Exactly one of Text or Image is set;
// Prior and LockedFields carry re-identification context on later tiers.
type Request struct {
	Text          string
	Image         *classify.ImageInput
	Supplementary string
	Prior         *model.ParsedWineRecord
	LockedFields  []string
	Opts          Options
}

// Result is a successful model call: the canonical record plus the usage
// accounting the escalation state collects per tier.
type Result struct {
	Parsed       *model.ParsedWineRecord
	RawContent   string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Latency      time.Duration
}

// Gateway dispatches requests to registered providers.
type Gateway struct {
	providers map[string]Provider
	calc      *cost.Calculator
	lex       *lexicon.Lexicon
}

// New creates a Gateway over the given providers.
func New(calc *cost.Calculator, lex *lexicon.Lexicon, providers ...Provider) *Gateway {
	g := &Gateway{
		providers: make(map[string]Provider, len(providers)),
		calc:      calc,
		lex:       lex,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

// Available reports whether the named provider is registered and its circuit
// breaker admits calls. Gates tier-2/3 attempts.
func (g *Gateway) Available(name string) bool {
	p, ok := g.providers[name]
	return ok && p.Available()
}

// Process runs one blocking identification call and returns the normalized
// record. A provider failure, an unparsable response, and an unavailable
// provider each map onto their error kind; the caller decides whether that
// fails the request or just the tier.
func (g *Gateway) Process(ctx context.Context, req Request) (*Result, error) {
	p, err := g.provider(req.Opts)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(req, g.lex)
	start := time.Now()

	var raw *RawResponse
	if req.Image != nil {
		raw, err = p.CompleteWithImage(ctx, systemPrompt, prompt, req.Image, req.Opts)
	} else {
		raw, err = p.Complete(ctx, systemPrompt, prompt, req.Opts)
	}
	if err != nil {
		return nil, classifyCallError(err)
	}

	return g.finish(p, raw, raw.Content, start)
}

// ProcessStream runs a streaming identification call, invoking onField for
// each field as soon as its value is complete in the model output. When the
// final payload is truncated or unparseable, the fields observed during the
// stream are reassembled as a best-effort substitute.
func (g *Gateway) ProcessStream(ctx context.Context, req Request, onField FieldFunc) (*Result, error) {
	p, err := g.provider(req.Opts)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(req, g.lex)
	scanner := newFieldScanner(onField)
	start := time.Now()

	raw, streamErr := p.StreamComplete(ctx, systemPrompt, prompt, req.Opts, scanner.feed)

	content := ""
	if raw != nil {
		content = raw.Content
	}
	if content == "" {
		content = scanner.content()
	}
	if raw == nil {
		raw = &RawResponse{Model: req.Opts.Model}
	}

	result, parseErr := g.finish(p, raw, content, start)
	if parseErr == nil {
		if streamErr != nil {
			zap.L().Warn("stream ended with error but payload parsed",
				zap.String("provider", p.Name()),
				zap.Error(streamErr))
		}
		return result, nil
	}

	// Final payload unusable; salvage the fields the scanner observed.
	if recovered := scanner.recovered(); recovered != nil {
		if result, err := g.finish(p, raw, string(recovered), start); err == nil {
			zap.L().Warn("recovered record from streamed fields",
				zap.String("provider", p.Name()),
				zap.String("parsed", describeResult(result.Parsed)))
			return result, nil
		}
	}

	if streamErr != nil {
		return nil, eris.Wrap(model.ErrStreaming, streamErr.Error())
	}
	return nil, parseErr
}

func (g *Gateway) provider(opts Options) (Provider, error) {
	p, ok := g.providers[opts.Provider]
	if !ok {
		return nil, eris.Wrapf(model.ErrProviderUnavailable, "gateway: unknown provider %q", opts.Provider)
	}
	if !p.Available() {
		return nil, eris.Wrapf(model.ErrProviderUnavailable, "gateway: provider %q circuit open", opts.Provider)
	}
	return p, nil
}

// finish parses and normalizes content and attaches usage accounting.
func (g *Gateway) finish(p Provider, raw *RawResponse, content string, start time.Time) (*Result, error) {
	rec, err := ParseRecord(content, g.lex)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Parsed:       rec,
		RawContent:   content,
		Provider:     p.Name(),
		Model:        raw.Model,
		InputTokens:  raw.InputTokens,
		OutputTokens: raw.OutputTokens,
		CostUSD:      g.callCost(p.Name(), raw),
		Latency:      time.Since(start),
	}

	zap.L().Debug("model call complete",
		zap.String("provider", res.Provider),
		zap.String("model", res.Model),
		zap.Int("input_tokens", res.InputTokens),
		zap.Int("output_tokens", res.OutputTokens),
		zap.Float64("cost_usd", res.CostUSD),
		zap.Duration("latency", res.Latency),
		zap.String("parsed", describeResult(rec)))
	return res, nil
}

func (g *Gateway) callCost(provider string, raw *RawResponse) float64 {
	if g.calc == nil {
		return 0
	}
	switch provider {
	case "anthropic":
		return g.calc.Claude(raw.Model, raw.InputTokens, raw.OutputTokens, raw.CacheWriteTokens, raw.CacheReadTokens)
	case "openai":
		return g.calc.OpenAI(raw.Model, raw.InputTokens, raw.OutputTokens)
	default:
		return 0
	}
}

// classifyCallError maps transport-level failures onto the engine's error
// kinds so tier handling can distinguish "provider down" from "bad output".
func classifyCallError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return eris.Wrap(model.ErrCancelled, "gateway: call cancelled")
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, resilience.ErrCircuitOpen),
		resilience.IsTransient(err):
		return eris.Wrap(model.ErrProviderUnavailable, err.Error())
	default:
		return err
	}
}
